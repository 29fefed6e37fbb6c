package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/auth"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"uid":  "42",
		"role": "user",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

// newAuthRouter echoes what the middleware placed in the context
func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": ok,
			"user_id":       userID,
			"role":          c.GetString(ContextUserRole),
			"admin":         IsAdmin(c),
		})
	})
	return router
}

func doRequest(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	router := newAuthRouter(JWTAuth(testSecret))

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noRole := validClaims()
	delete(noRole, "role")

	badRole := validClaims()
	badRole["role"] = "superuser"

	numericUID := validClaims()
	numericUID["uid"] = 42

	fractionalUID := validClaims()
	fractionalUID["uid"] = 1.5

	hugeUID := validClaims()
	hugeUID["uid"] = float64(math.MaxUint32) + 1

	negativeUID := validClaims()
	negativeUID["uid"] = -3

	testCases := []struct {
		name     string
		header   string
		expected int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, validClaims(), jwt.SigningMethodHS256, []byte("other-secret")), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, expired, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
		{"missing role", "Bearer " + signToken(t, noRole, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
		{"unknown role", "Bearer " + signToken(t, badRole, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, validClaims(), jwt.SigningMethodHS256, testSecret), http.StatusOK},
		{"numeric uid", "Bearer " + signToken(t, numericUID, jwt.SigningMethodHS256, testSecret), http.StatusOK},
		{"fractional uid", "Bearer " + signToken(t, fractionalUID, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
		{"uid out of range", "Bearer " + signToken(t, hugeUID, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
		{"negative uid", "Bearer " + signToken(t, negativeUID, jwt.SigningMethodHS256, testSecret), http.StatusUnauthorized},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.header)
			assert.Equal(t, tt.expected, w.Code, w.Body.String())

			if tt.expected == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, true, body["authenticated"])
				assert.Equal(t, float64(42), body["user_id"])
			} else {
				var apiErr models.APIError
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
				assert.Equal(t, models.ErrUnauthorized, apiErr.Code)
			}
		})
	}
}

func TestJWTAuthAcceptsGeneratedTokens(t *testing.T) {
	router := newAuthRouter(JWTAuth(testSecret))
	token, err := auth.NewTokenGenerator(string(testSecret)).Generate(models.User{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(9), body["user_id"])
	assert.Equal(t, true, body["admin"])
}

func TestOptionalJWTAuth(t *testing.T) {
	router := newAuthRouter(OptionalJWTAuth(testSecret))

	t.Run("anonymous passes through", func(t *testing.T) {
		w := doRequest(router, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("valid token authenticates", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, validClaims(), jwt.SigningMethodHS256, testSecret))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["authenticated"])
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		w := doRequest(router, "Bearer broken")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router := gin.New()
	router.GET("/admin", JWTAuth(testSecret), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	userClaims := validClaims()
	adminClaims := validClaims()
	adminClaims["role"] = "admin"

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userClaims, jwt.SigningMethodHS256, testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, adminClaims, jwt.SigningMethodHS256, testSecret))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 200, entry.Data["status"])
	assert.NotEmpty(t, entry.Data["request_id"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestPrometheusMetrics(t *testing.T) {
	router := gin.New()
	router.Use(PrometheusMetrics())
	router.GET("/api/v1/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/recipes/:id", "200")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/recipes/17", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
