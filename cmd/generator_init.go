package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/completion"
	"github.com/meridian-research/memogen/internal/config"
	"github.com/meridian-research/memogen/internal/extract"
	"github.com/meridian-research/memogen/internal/outline"
	"github.com/meridian-research/memogen/internal/pipeline"
	"github.com/meridian-research/memogen/internal/store"
	"github.com/meridian-research/memogen/pkg/marketdata"
)

// outlinesFile is picked up from the working directory when present and
// overrides the built-in situation outlines.
const outlinesFile = "outlines.yaml"

// generatorEnv bundles the store and generator shared by the generate,
// infographic, and serve commands. The registry is exposed for the serve
// command's situations endpoint.
type generatorEnv struct {
	Store     store.Store
	Generator *pipeline.Generator
	Registry  *outline.Registry
}

func (e *generatorEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initGenerator validates config for the given mode, opens and migrates the
// store, and wires the pipeline clients. Callers must defer env.Close().
func initGenerator(ctx context.Context, mode string) (*generatorEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	completer, err := completion.New(cfg.Completion)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var market marketdata.Client
	if cfg.MarketData.APIKey != "" {
		market = newMarketDataClient(cfg.MarketData)
	} else {
		zap.L().Debug("marketdata.api_key not set, resolved valuation unavailable")
	}

	registry, err := initRegistry()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	gen := pipeline.NewGenerator(cfg, st, registry, extract.New(), completer, market)
	return &generatorEnv{Store: st, Generator: gen, Registry: registry}, nil
}

// initRegistry builds the outline registry, applying outlines.yaml overrides
// from the working directory when the file exists.
func initRegistry() (*outline.Registry, error) {
	registry := outline.NewRegistry()
	if _, err := os.Stat(outlinesFile); err != nil {
		return registry, nil
	}
	if err := registry.LoadOverrides(outlinesFile); err != nil {
		return nil, err
	}
	zap.L().Info("outline overrides loaded", zap.String("path", outlinesFile))
	return registry, nil
}

func newMarketDataClient(mdCfg config.MarketDataConfig) marketdata.Client {
	opts := []marketdata.Option{}
	if mdCfg.BaseURL != "" {
		opts = append(opts, marketdata.WithBaseURL(mdCfg.BaseURL))
	}
	if mdCfg.RequestsPerSecond > 0 {
		opts = append(opts, marketdata.WithRequestsPerSecond(mdCfg.RequestsPerSecond))
	}
	return marketdata.NewClient(mdCfg.APIKey, opts...)
}
