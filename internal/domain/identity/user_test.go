package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user", func(t *testing.T) {
		user, err := NewUser("Reader@Example.com", "correct-horse", "Avid Reader")
		require.NoError(t, err)

		assert.Equal(t, "reader@example.com", user.Email, "email is lowercased")
		assert.Equal(t, "Avid Reader", user.FullName)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		for _, email := range []string{"", "no-at-sign", "a@b", "spaces in@example.com"} {
			_, err := NewUser(email, "correct-horse", "Reader")
			assert.Error(t, err, "expected %q to be rejected", email)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("reader@example.com", "short", "Reader")
		assert.Error(t, err)
	})

	t.Run("rejects password beyond bcrypt limit", func(t *testing.T) {
		_, err := NewUser("reader@example.com", strings.Repeat("x", 73), "Reader")
		assert.Error(t, err)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewUser("reader@example.com", "correct-horse", "Reader")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("correct-horse"))
	assert.False(t, user.VerifyPassword("wrong-horse"))
	assert.False(t, user.VerifyPassword(""))
}

func TestUser_ActivationFlag(t *testing.T) {
	user, err := NewUser("reader@example.com", "correct-horse", "Reader")
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.IsActive)

	user.Activate()
	assert.True(t, user.IsActive)
}
