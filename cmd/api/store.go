package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/internal/infrastructure/memory"
	"github.com/jhoicas/retail-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-stock/pkg/config"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

type store struct {
	runner inventory.TxRunner
	read   repository.Repos
	close  func()
}

// openStore connects the configured entity store.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("using the in-memory store, data is lost on exit")
		m := memory.New()
		return &store{runner: m, read: m.Repos(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("schema up to date")
	}
	return &store{runner: postgres.NewTxRunner(pool), read: postgres.NewRepos(pool), close: pool.Close}, nil
}
