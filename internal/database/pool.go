package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"autobk/internal/autobk"
)

// connectRetryDelay is the fixed pause between connection attempts.
var connectRetryDelay = time.Second

// openPool opens a database/sql pool and pings it up to attempts times.
// attempts below 1 means a single attempt.
func openPool(ctx context.Context, driver, dsn string, attempts int) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", autobk.ErrConnection, err)
	}

	if attempts < 1 {
		attempts = 1
	}

	for i := 1; ; i++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if i >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("%w: %w", autobk.ErrConnection, ctx.Err())
		case <-time.After(connectRetryDelay):
		}
	}

	db.Close()
	return nil, fmt.Errorf("%w: %w", autobk.ErrConnection, err)
}
