package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the authentication middleware
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// JWTAuth middleware that requires a valid Bearer JWT access token
// It validates the token and stores the user ID and role in the Gin context
// following RFC 6750 (Bearer Token Usage) and RFC 7519 (JWT)
func JWTAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Extract Bearer token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !authenticate(c, authHeader, jwtSecret) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth authenticates the request when an Authorization header is present
// and lets anonymous requests through. A present but invalid token is still rejected.
func OptionalJWTAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !authenticate(c, authHeader, jwtSecret) {
			return
		}
		c.Next()
	}
}

// authenticate validates the header and sets the context, aborting on failure
func authenticate(c *gin.Context, authHeader string, jwtSecret []byte) bool {
	// Validate Bearer scheme format
	if !strings.HasPrefix(authHeader, "Bearer ") {
		respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
			"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
			"Bearer token is empty")
		return false
	}

	// Parse and validate the JWT token
	claims, err := parseAndValidateJWT(tokenString, jwtSecret)
	if err != nil {
		respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized, err.Error())
		return false
	}

	// Extract and validate required claims, setting context
	if err := extractAndSetClaims(c, claims); err != nil {
		respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized, err.Error())
		return false
	}
	return true
}

// CurrentUserID returns the authenticated user ID, false for anonymous requests
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// IsAdmin reports whether the authenticated user carries the admin role
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextUserRole) == models.RoleAdmin
}

// respondWithAuthError responds with the API error format and a RFC 6750 challenge
func respondWithAuthError(c *gin.Context, status int, code, description string) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	c.AbortWithStatusJSON(status, models.NewAPIError(code, description))
}

// parseJWTToken validates and parses a JWT token using HMAC signing method
// Returns the claims if valid, error otherwise
func parseJWTToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	// Parse with validation
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		// This protects against attacks where an attacker changes the algorithm header
		// See: https://auth0.com/blog/critical-vulnerabilities-in-json-web-token-libraries/
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	// Extract and validate claims
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	return claims, nil
}

// parseAndValidateJWT parses the JWT and performs strict validation
func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	claims, err := parseJWTToken(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Validate token expiration (exp claim)
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}

	// Validate not before (nbf claim) if present
	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, fmt.Errorf("token not yet valid")
	}

	// Validate issued at (iat claim) - prevents using tokens issued in the future
	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return nil, fmt.Errorf("token issued in the future")
	}

	return claims, nil
}

// extractAndSetClaims extracts user information from JWT claims and sets it in the Gin context
// This function follows strict validation rules to prevent security issues
func extractAndSetClaims(c *gin.Context, claims jwt.MapClaims) error {
	// Extract UserID - this is REQUIRED for all tokens
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}

	// Validate that userID is valid (non-zero)
	if userID == 0 {
		return fmt.Errorf("invalid user identifier: cannot be zero")
	}
	c.Set(ContextUserID, userID)

	// Extract role claim - STRICTLY required, no defaults
	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set(ContextUserRole, role)

	return nil
}

// extractUserID extracts and validates the user ID from JWT claims
// Supports the "uid" claim as either a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	// Try "uid" as a numeric string first (what auth.TokenGenerator emits)
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		parsedID, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsedID), nil
	}

	// Try "uid" as float64 (JSON numbers are parsed as float64)
	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 || uid > math.MaxUint32 || uid != math.Trunc(uid) {
			return 0, fmt.Errorf("invalid uid claim: must be a positive integer, got: %v", uid)
		}
		return uint(uid), nil
	}

	// If no uid found, reject the token
	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}

// extractRole extracts and validates the role from JWT claims
// All tokens must have an explicit role claim - no defaults are provided
func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}

	// Validate role against allowed values
	allowedRoles := map[string]bool{
		models.RoleAdmin: true,
		models.RoleUser:  true,
	}

	if !allowedRoles[role] {
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: admin, user", role)
	}

	return role, nil
}
