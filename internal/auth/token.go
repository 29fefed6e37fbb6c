package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

// TokenGenerator signs access tokens carrying the user ID and role.
// End-user login lives in an external identity service; this generator backs
// the create-token CLI command and tests, and defines the claim layout the
// middleware expects.
type TokenGenerator struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	TTL          time.Duration
	now          func() time.Time
}

// NewTokenGenerator creates a HS256 generator with the default TTL
func NewTokenGenerator(secret string) *TokenGenerator {
	return &TokenGenerator{
		SignedKey:    []byte(secret),
		SignedMethod: jwt.SigningMethodHS256,
		TTL:          DefaultTokenTTL,
		now:          time.Now,
	}
}

// Generate returns a signed token with uid, role, iat and exp claims
func (g *TokenGenerator) Generate(user models.User) (string, error) {
	if user.ID == 0 {
		return "", fmt.Errorf("cannot generate token: user has no ID")
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	now := g.now()
	claims := jwt.MapClaims{
		"uid":  strconv.FormatUint(uint64(user.ID), 10),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(g.TTL).Unix(),
	}

	token := jwt.NewWithClaims(g.SignedMethod, claims)
	signed, err := token.SignedString(g.SignedKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
