package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-research/memogen/pkg/marketdata"
)

// PeerMultiple is one peer's resolved EV/EBITDA multiple.
type PeerMultiple struct {
	Peer     string  `json:"peer"`
	Symbol   string  `json:"symbol,omitempty"`
	Multiple float64 `json:"multiple,omitempty"`
	Resolved bool    `json:"resolved"`
}

// Summary holds the computed valuation estimate for a peer group.
type Summary struct {
	Peers           []PeerMultiple `json:"peers"`
	AverageMultiple float64        `json:"average_multiple"`
	MarketCap       float64        `json:"market_cap"`
	NetDebt         float64        `json:"net_debt"`
	TrailingEBITDA  float64        `json:"trailing_ebitda"`
	ImpliedEV       float64        `json:"implied_ev"`
	ImpliedEquity   float64        `json:"implied_equity"`
}

// UpsideString formats the implied upside versus market cap, or "N/A" when
// the market cap is unavailable.
func (s *Summary) UpsideString() string {
	if s.MarketCap == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", (s.ImpliedEquity/s.MarketCap-1)*100)
}

// ResolveValuation resolves the merged peer group and the target company's
// fundamentals into a valuation Summary. Individual lookup failures are
// logged and excluded from the average; they never abort the batch.
func ResolveValuation(ctx context.Context, md marketdata.Client, company string, parentPeers, spincoPeers []string) *Summary {
	peers := mergePeers(parentPeers, spincoPeers)
	summary := &Summary{Peers: make([]PeerMultiple, len(peers))}

	var marketCap, netDebt, ebitda float64

	g, gctx := errgroup.WithContext(ctx)
	for i, peer := range peers {
		g.Go(func() error {
			summary.Peers[i] = resolvePeer(gctx, md, peer)
			return nil
		})
	}
	g.Go(func() error {
		marketCap, netDebt, ebitda = targetFundamentals(gctx, md, company)
		return nil
	})
	_ = g.Wait()

	var sum float64
	var resolved int
	for _, p := range summary.Peers {
		if p.Resolved {
			sum += p.Multiple
			resolved++
		}
	}
	if resolved > 0 {
		summary.AverageMultiple = sum / float64(resolved)
	}

	summary.MarketCap = marketCap
	summary.NetDebt = netDebt
	summary.TrailingEBITDA = ebitda

	// No resolved peers yields a zero estimate, not a crash.
	if resolved > 0 {
		summary.ImpliedEV = summary.AverageMultiple * ebitda
		summary.ImpliedEquity = summary.ImpliedEV - netDebt
	}

	zap.L().Info("valuation: peer group resolved",
		zap.String("company", company),
		zap.Int("peers", len(peers)),
		zap.Int("resolved", resolved),
		zap.Float64("average_multiple", summary.AverageMultiple),
	)

	return summary
}

// mergePeers combines both peer groups into one list, dropping duplicates
// while preserving input order.
func mergePeers(parent, spinco []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, p := range append(append([]string{}, parent...), spinco...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		merged = append(merged, p)
	}
	return merged
}

func resolvePeer(ctx context.Context, md marketdata.Client, peer string) PeerMultiple {
	pm := PeerMultiple{Peer: peer}

	symbol, err := resolveSymbol(ctx, md, peer)
	if err != nil {
		zap.L().Warn("valuation: peer symbol lookup failed",
			zap.String("peer", peer), zap.Error(err))
		return pm
	}
	pm.Symbol = symbol

	multiple, err := md.EVToEBITDA(ctx, symbol)
	if err != nil {
		zap.L().Warn("valuation: peer multiple lookup failed",
			zap.String("peer", peer), zap.String("symbol", symbol), zap.Error(err))
		return pm
	}
	if multiple == 0 {
		zap.L().Warn("valuation: zero multiple excluded",
			zap.String("peer", peer), zap.String("symbol", symbol))
		return pm
	}

	pm.Multiple = multiple
	pm.Resolved = true
	return pm
}

// targetFundamentals fetches the target company's market cap, net debt, and
// trailing EBITDA. Each value fails soft to zero.
func targetFundamentals(ctx context.Context, md marketdata.Client, company string) (marketCap, netDebt, ebitda float64) {
	symbol, err := resolveSymbol(ctx, md, company)
	if err != nil {
		zap.L().Warn("valuation: target symbol lookup failed",
			zap.String("company", company), zap.Error(err))
		return 0, 0, 0
	}

	if v, err := md.MarketCap(ctx, symbol); err == nil {
		marketCap = v
	} else {
		zap.L().Warn("valuation: market cap lookup failed",
			zap.String("symbol", symbol), zap.Error(err))
	}
	if v, err := md.NetDebt(ctx, symbol); err == nil {
		netDebt = v
	} else {
		zap.L().Warn("valuation: net debt lookup failed",
			zap.String("symbol", symbol), zap.Error(err))
	}
	if v, err := md.TrailingEBITDA(ctx, symbol); err == nil {
		ebitda = v
	} else {
		zap.L().Warn("valuation: trailing EBITDA lookup failed",
			zap.String("symbol", symbol), zap.Error(err))
	}
	return marketCap, netDebt, ebitda
}

func resolveSymbol(ctx context.Context, md marketdata.Client, query string) (string, error) {
	hits, err := md.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", eris.Errorf("pipeline: no symbol match for %q", query)
	}
	return hits[0].Symbol, nil
}
