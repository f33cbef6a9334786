package persistence

import (
	"testing"

	"github.com/newsbrief/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDatabase opens an in-memory sqlite database with the full schema
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabaseSqlite(t *testing.T) {
	db := newTestDatabase(t)
	assert.NoError(t, db.Ping())
}

func TestNewDatabaseUnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrateCreatesTables(t *testing.T) {
	db := newTestDatabase(t)

	for _, table := range []string{"articles", "user_interactions", "enrichment_jobs", "users"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO users (id, email, password_hash, full_name, is_active, created_at, updated_at)
			VALUES ('11111111-1111-1111-1111-111111111111', 'a@b.c', 'x', 'A', true, datetime('now'), datetime('now'))`).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.DB.Table("users").Count(&count).Error)
	assert.Zero(t, count)
}
