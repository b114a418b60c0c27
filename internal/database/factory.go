package database

import (
	"context"
	"fmt"

	"autobk/internal/autobk"
	"autobk/internal/config"
)

// NewGatewayFromConfig creates a Gateway implementation based on the db_type setting.
func NewGatewayFromConfig(ctx context.Context, cfg config.DatabaseConfig) (*SQLGateway, error) {
	switch cfg.Type {
	case "mysql", "":
		return NewMySQLGateway(ctx, cfg)
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: db_path required for sqlite database", autobk.ErrConfig)
		}
		return NewSQLiteGateway(ctx, cfg.Path)
	case "memory":
		return NewSQLiteGateway(ctx, ":memory:")
	default:
		return nil, fmt.Errorf("%w: unknown database type: %s", autobk.ErrConfig, cfg.Type)
	}
}
