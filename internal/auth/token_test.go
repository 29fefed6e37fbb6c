package auth

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-32-characters"

func TestGenerateTokenClaims(t *testing.T) {
	gen := NewTokenGenerator(testSecret)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	gen.now = func() time.Time { return fixed }
	gen.TTL = time.Hour

	tokenString, err := gen.Generate(models.User{ID: 7, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Contains(t, tokenString, ".")

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, "7", claims["uid"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, float64(fixed.Add(time.Hour).Unix()), claims["exp"])
}

func TestGenerateTokenDefaultsRole(t *testing.T) {
	gen := NewTokenGenerator(testSecret)

	tokenString, err := gen.Generate(models.User{ID: 3})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user", claims["role"])
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	gen := NewTokenGenerator(testSecret)

	_, err := gen.Generate(models.User{})
	assert.Error(t, err)
}
