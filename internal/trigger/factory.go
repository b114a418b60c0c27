package trigger

import (
	"context"
	"fmt"

	"autobk/internal/autobk"
	"autobk/internal/config"
)

// NewTriggerFromConfig creates a BackupTrigger implementation based on the trigger config type.
func NewTriggerFromConfig(ctx context.Context, cfg config.TriggerConfig, clock autobk.Clock, idgen autobk.RequestIDGenerator) (autobk.BackupTrigger, error) {
	switch cfg.Type {
	case "spool", "":
		if cfg.SpoolDir == "" {
			return nil, fmt.Errorf("%w: spool trigger requires spool_dir to be set", autobk.ErrConfig)
		}
		t, err := NewSpoolTrigger(cfg.SpoolDir, clock, idgen)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", autobk.ErrTrigger, err)
		}
		return t, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("%w: s3 trigger requires s3_bucket to be set", autobk.ErrConfig)
		}
		t, err := NewS3Trigger(ctx, cfg, clock, idgen)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", autobk.ErrTrigger, err)
		}
		return t, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis trigger requires redis_addr to be set", autobk.ErrConfig)
		}
		return NewRedisTrigger(cfg, clock, idgen), nil
	case "memory":
		return NewMemoryTrigger(clock, idgen), nil
	default:
		return nil, fmt.Errorf("%w: unknown trigger type: %s", autobk.ErrConfig, cfg.Type)
	}
}
