package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	conf := &config.Config{
		DBDriver:         "sqlite",
		DBPath:           ":memory:",
		JWTSecret:        "test-jwt-secret-key-32-characters",
		CatalogCacheSize: 8,
	}
	db, err := database.InitDatabase(conf.Database())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	deps, err := buildDependencies(db, conf)
	require.NoError(t, err)
	return setupRouter(deps, conf)
}

func TestRouterServesInfrastructureEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	testCases := []struct {
		name     string
		path     string
		expected int
	}{
		{"health", "/health", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"api", "/api/v1/tags", http.StatusOK},
		{"protected api", "/api/v1/users/me", http.StatusUnauthorized},
		{"unknown", "/nope", http.StatusNotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expected, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestMetricsExposeRequestCounter(t *testing.T) {
	router := setupTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `foodgram_api_requests_total{method="GET",route="/health",status="200"}`)
}
