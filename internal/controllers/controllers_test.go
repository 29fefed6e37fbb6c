package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/auth"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret-key-32-characters"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenGenerator
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	require.NoError(t, validation.Register())

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tags, err := services.NewTagService(db, 32)
	require.NoError(t, err)
	ingredients, err := services.NewIngredientService(db, 32)
	require.NoError(t, err)

	deps := Dependencies{
		Users:         services.NewUserService(db),
		Tags:          tags,
		Ingredients:   ingredients,
		Recipes:       services.NewRecipeService(db, tags, ingredients),
		Favorites:     services.NewFavoriteService(db),
		Carts:         services.NewShoppingCartService(db),
		Subscriptions: services.NewSubscriptionService(db),
	}

	router := gin.New()
	RegisterRoutes(router, deps, []byte(testSecret))

	return &testAPI{t: t, db: db, router: router, tokens: auth.NewTokenGenerator(testSecret)}
}

func (a *testAPI) createUser(username, role string) (models.User, string) {
	a.t.Helper()
	user := models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "unused",
		Role:      role,
	}
	require.NoError(a.t, a.db.Create(&user).Error)

	token, err := a.tokens.Generate(user)
	require.NoError(a.t, err)
	return user, token
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// seedCatalog creates one tag and two ingredients through the admin endpoints
func (a *testAPI) seedCatalog(adminToken string) (models.Tag, models.Ingredient, models.Ingredient) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/tags", adminToken, models.TagRequest{Name: "Breakfast", Slug: "breakfast"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	tag := decode[models.Tag](a.t, w)

	w = a.do(http.MethodPost, "/api/v1/ingredients", adminToken, models.IngredientRequest{Name: "egg", MeasurementUnit: "pcs"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	egg := decode[models.Ingredient](a.t, w)

	w = a.do(http.MethodPost, "/api/v1/ingredients", adminToken, models.IngredientRequest{Name: "milk", MeasurementUnit: "ml"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	milk := decode[models.Ingredient](a.t, w)

	return tag, egg, milk
}

func recipeBody(name string, tag models.Tag, items ...models.RecipeIngredientInput) models.RecipeRequest {
	return models.RecipeRequest{
		Name:        name,
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		Text:        "Mix and cook.",
		CookingTime: 10,
		Tags:        []uint{tag.ID},
		Ingredients: items,
	}
}

func (a *testAPI) createRecipe(token string, body models.RecipeRequest) models.RecipeResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/recipes", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.RecipeResponse](a.t, w)
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
