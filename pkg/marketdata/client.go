// Package marketdata provides a Financial Modeling Prep-compatible API
// client for comparable-company lookups.
package marketdata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/meridian-research/memogen/internal/resilience"
)

const (
	defaultBaseURL           = "https://financialmodelingprep.com"
	defaultRequestsPerSecond = 4
)

// Client performs market data lookups.
type Client interface {
	// Search resolves a free-text company query to candidate symbols.
	Search(ctx context.Context, query string) ([]SearchHit, error)
	// EVToEBITDA returns the trailing-twelve-month EV/EBITDA multiple.
	EVToEBITDA(ctx context.Context, symbol string) (float64, error)
	// MarketCap returns the latest market capitalization.
	MarketCap(ctx context.Context, symbol string) (float64, error)
	// NetDebt returns total debt minus cash and equivalents from the most
	// recent balance sheet.
	NetDebt(ctx context.Context, symbol string) (float64, error)
	// TrailingEBITDA returns EBITDA from the most recent income statement.
	TrailingEBITDA(ctx context.Context, symbol string) (float64, error)
}

// SearchHit is a single symbol search result.
type SearchHit struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	StockExchange string `json:"stockExchange"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRequestsPerSecond overrides the client-side rate limit.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetryConfig overrides the retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a market data client.
func NewClient(apiKey string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("marketdata", "lookup")

	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		retry:   retry,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", "5")

	var hits []SearchHit
	if err := c.getJSON(ctx, "/api/v3/search", params, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *httpClient) EVToEBITDA(ctx context.Context, symbol string) (float64, error) {
	var rows []struct {
		Multiple float64 `json:"enterpriseValueOverEBITDATTM"`
	}
	if err := c.getJSON(ctx, "/api/v3/key-metrics-ttm/"+url.PathEscape(symbol), nil, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, eris.Errorf("marketdata: no key metrics for %q", symbol)
	}
	return rows[0].Multiple, nil
}

func (c *httpClient) MarketCap(ctx context.Context, symbol string) (float64, error) {
	var rows []struct {
		MarketCap float64 `json:"marketCap"`
	}
	if err := c.getJSON(ctx, "/api/v3/market-capitalization/"+url.PathEscape(symbol), nil, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, eris.Errorf("marketdata: no market capitalization for %q", symbol)
	}
	return rows[0].MarketCap, nil
}

func (c *httpClient) NetDebt(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("limit", "1")

	var rows []struct {
		TotalDebt float64 `json:"totalDebt"`
		Cash      float64 `json:"cashAndCashEquivalents"`
	}
	if err := c.getJSON(ctx, "/api/v3/balance-sheet-statement/"+url.PathEscape(symbol), params, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, eris.Errorf("marketdata: no balance sheet for %q", symbol)
	}
	return rows[0].TotalDebt - rows[0].Cash, nil
}

func (c *httpClient) TrailingEBITDA(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("limit", "1")

	var rows []struct {
		EBITDA float64 `json:"ebitda"`
	}
	if err := c.getJSON(ctx, "/api/v3/income-statement/"+url.PathEscape(symbol), params, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, eris.Errorf("marketdata: no income statement for %q", symbol)
	}
	return rows[0].EBITDA, nil
}

// getJSON performs a rate-limited GET with retries and decodes the JSON body.
func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "marketdata: rate limit wait")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	body, err := resilience.Do(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, eris.Wrap(err, "marketdata: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "marketdata: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "marketdata: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("marketdata: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return respBody, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "marketdata: unmarshal response")
	}
	return nil
}
