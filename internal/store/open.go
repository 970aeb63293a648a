package store

import (
	"context"
	"fmt"

	"github.com/SergeyParamoshkin/articles/internal/config"

	"go.uber.org/zap"
)

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreSection, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		s, err := OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}

		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
