// Package completion abstracts the chat-completion providers behind a
// single interface so the memo pipeline does not care which one is wired.
package completion

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-research/memogen/internal/config"
	"github.com/meridian-research/memogen/pkg/anthropic"
	"github.com/meridian-research/memogen/pkg/deepseek"
)

// Result is the outcome of a single completion call.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Completer produces a completion for a single prompt.
type Completer interface {
	// Complete sends the prompt to the provider and returns the generated text.
	Complete(ctx context.Context, prompt string) (*Result, error)
	// Name identifies the provider for logging and run records.
	Name() string
}

// New builds a Completer for the configured provider.
func New(cfg config.CompletionConfig) (Completer, error) {
	switch cfg.Provider {
	case "deepseek":
		opts := []deepseek.Option{
			deepseek.WithHTTPClient(&http.Client{Timeout: timeout(cfg.TimeoutSecs)}),
		}
		if cfg.DeepSeek.BaseURL != "" {
			opts = append(opts, deepseek.WithBaseURL(cfg.DeepSeek.BaseURL))
		}
		if cfg.DeepSeek.Model != "" {
			opts = append(opts, deepseek.WithModel(cfg.DeepSeek.Model))
		}
		if cfg.DeepSeek.Temperature > 0 {
			opts = append(opts, deepseek.WithTemperature(cfg.DeepSeek.Temperature))
		}
		if cfg.MaxTokens > 0 {
			opts = append(opts, deepseek.WithMaxTokens(cfg.MaxTokens))
		}
		return &deepseekCompleter{client: deepseek.NewClient(cfg.DeepSeek.APIKey, opts...)}, nil
	case "anthropic":
		return &anthropicCompleter{
			client:      anthropic.NewClient(cfg.Anthropic.APIKey),
			model:       cfg.Anthropic.Model,
			maxTokens:   int64(cfg.MaxTokens),
			temperature: cfg.Anthropic.Temperature,
		}, nil
	default:
		return nil, eris.Errorf("completion: unknown provider %q", cfg.Provider)
	}
}

func timeout(secs int) time.Duration {
	if secs <= 0 {
		secs = 120
	}
	return time.Duration(secs) * time.Second
}

type deepseekCompleter struct {
	client deepseek.Client
}

func (d *deepseekCompleter) Name() string { return "deepseek" }

func (d *deepseekCompleter) Complete(ctx context.Context, prompt string) (*Result, error) {
	resp, err := d.client.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages: []deepseek.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "completion: deepseek chat")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("completion: deepseek returned no choices")
	}
	return &Result{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

type anthropicCompleter struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func (a *anthropicCompleter) Name() string { return "anthropic" }

func (a *anthropicCompleter) Complete(ctx context.Context, prompt string) (*Result, error) {
	req := anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	}
	if a.temperature > 0 {
		req.Temperature = &a.temperature
	}

	resp, err := a.client.CreateMessage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "completion: anthropic message")
	}
	text := resp.Text()
	if text == "" {
		return nil, eris.New("completion: anthropic returned no text content")
	}
	return &Result{
		Text:             text,
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}
