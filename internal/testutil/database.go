package testutil

import (
	"context"
	"testing"

	"autobk/internal/database"
)

// NewTestGateway creates a new in-memory SQLite gateway with the Device table.
// The gateway is automatically closed when the test completes.
func NewTestGateway(t *testing.T) *database.SQLGateway {
	t.Helper()

	gw, err := database.NewSQLiteGateway(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		gw.Close()
	})

	return gw
}
