package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/meridian-research/memogen/internal/store"
)

// initStore opens the run store named by config. SQLite is the default and
// needs no external service; postgres is for shared deployments.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
