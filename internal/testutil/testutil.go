package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/profilehub/internal/db"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// Open pins SQLite to a single connection, so every query sees the same
// in-memory database.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(context.Background(), db.Options{
		Driver:          db.DriverSQLite,
		DSN:             ":memory:",
		ConnectAttempts: 1,
	})
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
