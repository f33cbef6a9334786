package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/newsbrief/backend/internal/domain/identity"
	"github.com/newsbrief/backend/internal/domain/shared"
)

func newTestUser(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "password123", "Test User")
	require.NoError(t, err)
	return user
}

func TestUserRepositorySaveAndFind(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	user := newTestUser(t, "user@example.com")
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", found.Email)
	assert.True(t, found.IsActive)

	found, err = repo.FindByEmail(ctx, "  User@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepositoryFindByIDNotFound(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormUserRepository(db.DB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestUserRepositoryFindByEmailEmpty(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormUserRepository(db.DB)

	_, err := repo.FindByEmail(context.Background(), "")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestUserRepositoryExistsByEmail(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	exists, err := repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Save(ctx, newTestUser(t, "somebody@example.com")))

	exists, err = repo.ExistsByEmail(ctx, "Somebody@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepositoryQueryShape(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewGormUserRepository(gdb)
	ctx := context.Background()

	t.Run("FindByEmail lowercases the lookup", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("mixed@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
				AddRow(uuid.New().String(), "mixed@example.com"))

		_, err := repo.FindByEmail(ctx, "Mixed@Example.COM")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExistsByEmail issues a count", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
			WithArgs("a@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
