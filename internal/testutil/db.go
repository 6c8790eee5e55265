// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"hopon-backend/internal/infrastructure/database/postgres"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:hopon_%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))

	db, err := postgres.Open(sqlite.Open(dsn), "test")
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	return db
}
