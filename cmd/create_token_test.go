package main

import (
	"context"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) services.UserService {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { closeDatabase(db) })
	return services.NewUserService(db)
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "chef", usernameFromEmail("chef@example.com"))

	for _, email := range []string{"@example.com", "a@example.com", "o'neil@example.com", "two words@example.com"} {
		t.Run(email, func(t *testing.T) {
			name := usernameFromEmail(email)
			assert.True(t, strings.HasPrefix(name, "user_"), name)
			assert.True(t, validation.IsValidUsername(name), name)
		})
	}
}

func TestFindOrCreateTokenUser(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)

	t.Run("creates a user with a valid username", func(t *testing.T) {
		user, err := findOrCreateTokenUser(ctx, users, "o'neil@example.com")
		require.NoError(t, err)
		assert.True(t, validation.IsValidUsername(user.Username), user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("returns the existing user", func(t *testing.T) {
		first, err := findOrCreateTokenUser(ctx, users, "chef@example.com")
		require.NoError(t, err)
		again, err := findOrCreateTokenUser(ctx, users, "chef@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, "chef", again.Username)
	})

	t.Run("falls back when the derived username is taken", func(t *testing.T) {
		user, err := findOrCreateTokenUser(ctx, users, "chef@other.example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "chef", user.Username)
		assert.True(t, strings.HasPrefix(user.Username, "user_"), user.Username)
	})
}
