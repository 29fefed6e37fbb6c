package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fixture wires every service against one database
type fixture struct {
	db            *gorm.DB
	users         UserService
	tags          TagService
	ingredients   IngredientService
	recipes       RecipeService
	favorites     FavoriteService
	carts         ShoppingCartService
	subscriptions SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	tags, err := NewTagService(db, 16)
	require.NoError(t, err)
	ingredients, err := NewIngredientService(db, 16)
	require.NoError(t, err)

	return &fixture{
		db:            db,
		users:         NewUserService(db),
		tags:          tags,
		ingredients:   ingredients,
		recipes:       NewRecipeService(db, tags, ingredients),
		favorites:     NewFavoriteService(db),
		carts:         NewShoppingCartService(db),
		subscriptions: NewSubscriptionService(db),
	}
}

func (f *fixture) user(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "not-a-real-hash",
		Role:      models.RoleUser,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) tag(t *testing.T, slug string) models.Tag {
	t.Helper()
	tag, err := f.tags.CreateTag(context.Background(), models.TagRequest{Name: "Tag " + slug, Slug: slug})
	require.NoError(t, err)
	return *tag
}

func (f *fixture) ingredient(t *testing.T, name, unit string) models.Ingredient {
	t.Helper()
	ingredient, err := f.ingredients.CreateIngredient(context.Background(), models.IngredientRequest{Name: name, MeasurementUnit: unit})
	require.NoError(t, err)
	return *ingredient
}

// recipeRequest builds a valid request using the given tag and ingredient
func recipeRequest(name string, tag models.Tag, ingredients ...models.RecipeIngredientInput) models.RecipeRequest {
	return models.RecipeRequest{
		Name:        name,
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 30,
		Tags:        []uint{tag.ID},
		Ingredients: ingredients,
	}
}

func (f *fixture) recipe(t *testing.T, author models.User, req models.RecipeRequest) models.Recipe {
	t.Helper()
	recipe, err := f.recipes.CreateRecipe(context.Background(), Actor{UserID: author.ID}, req)
	require.NoError(t, err)
	return *recipe
}
