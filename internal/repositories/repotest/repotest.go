// Package repotest opens throwaway stores for service tests.
package repotest

import (
	"testing"

	"sfstore/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database. It holds a single connection,
// so concurrent transactions run one after another.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repositories.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewStore returns a Store over a fresh database along with the database itself.
func NewStore(t testing.TB) (repositories.Store, *gorm.DB) {
	db := NewDB(t)
	return repositories.NewStore(db), db
}
