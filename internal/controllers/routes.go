package controllers

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Dependencies groups the services the controllers are built from
type Dependencies struct {
	Users         services.UserService
	Tags          services.TagService
	Ingredients   services.IngredientService
	Recipes       services.RecipeService
	Favorites     services.FavoriteService
	Carts         services.ShoppingCartService
	Subscriptions services.SubscriptionService
}

func (d Dependencies) presenter() *presenter {
	return &presenter{
		recipes:       d.Recipes,
		favorites:     d.Favorites,
		carts:         d.Carts,
		subscriptions: d.Subscriptions,
	}
}

// RegisterRoutes mounts the API on the /api/v1 group of router
func RegisterRoutes(router gin.IRouter, deps Dependencies, jwtSecret []byte) {
	users := NewUserController(deps)
	catalog := NewCatalogController(deps)
	recipes := NewRecipeController(deps)

	authRequired := middleware.JWTAuth(jwtSecret)
	authOptional := middleware.OptionalJWTAuth(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		userApi := v1.Group("/users")
		{
			userApi.POST("", users.Register)
			userApi.GET("", authOptional, users.ListUsers)
			userApi.GET("/me", authRequired, users.Me)
			userApi.PUT("/me/avatar", authRequired, users.SetAvatar)
			userApi.DELETE("/me/avatar", authRequired, users.DeleteAvatar)
			userApi.POST("/set_password", authRequired, users.SetPassword)
			userApi.GET("/subscriptions", authRequired, users.ListSubscriptions)
			userApi.GET("/:id", authOptional, users.GetUser)
			userApi.POST("/:id/subscribe", authRequired, users.Subscribe)
			userApi.DELETE("/:id/subscribe", authRequired, users.Unsubscribe)
		}

		tagApi := v1.Group("/tags")
		{
			tagApi.GET("", catalog.ListTags)
			tagApi.GET("/:id", catalog.GetTag)
			tagApi.POST("", authRequired, adminOnly, catalog.CreateTag)
		}

		ingredientApi := v1.Group("/ingredients")
		{
			ingredientApi.GET("", catalog.ListIngredients)
			ingredientApi.GET("/:id", catalog.GetIngredient)
			ingredientApi.POST("", authRequired, adminOnly, catalog.CreateIngredient)
		}

		recipeApi := v1.Group("/recipes")
		{
			recipeApi.GET("", authOptional, recipes.ListRecipes)
			recipeApi.GET("/download_shopping_cart", authRequired, recipes.DownloadShoppingCart)
			recipeApi.GET("/:id", authOptional, recipes.GetRecipe)
			recipeApi.POST("", authRequired, recipes.CreateRecipe)
			recipeApi.PATCH("/:id", authRequired, recipes.UpdateRecipe)
			recipeApi.DELETE("/:id", authRequired, recipes.DeleteRecipe)
			recipeApi.POST("/:id/favorite", authRequired, recipes.AddFavorite)
			recipeApi.DELETE("/:id/favorite", authRequired, recipes.RemoveFavorite)
			recipeApi.POST("/:id/shopping_cart", authRequired, recipes.AddToShoppingCart)
			recipeApi.DELETE("/:id/shopping_cart", authRequired, recipes.RemoveFromShoppingCart)
		}
	}
}
