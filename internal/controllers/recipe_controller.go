package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RecipeController handles HTTP requests related to recipes, favorites and the shopping cart
type RecipeController interface {
	// ListRecipes retrieves recipes with optional filtering
	ListRecipes(c *gin.Context)
	// GetRecipe retrieves a recipe by its ID
	GetRecipe(c *gin.Context)
	// CreateRecipe creates a new recipe
	CreateRecipe(c *gin.Context)
	// UpdateRecipe updates an existing recipe
	UpdateRecipe(c *gin.Context)
	// DeleteRecipe deletes a recipe by its ID
	DeleteRecipe(c *gin.Context)
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	AddToShoppingCart(c *gin.Context)
	RemoveFromShoppingCart(c *gin.Context)
	// DownloadShoppingCart renders the aggregated shopping list as a text attachment
	DownloadShoppingCart(c *gin.Context)
}

type recipeController struct {
	recipes   services.RecipeService
	favorites services.FavoriteService
	carts     services.ShoppingCartService
	users     services.UserService
	present   *presenter
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(deps Dependencies) *recipeController {
	return &recipeController{
		recipes:   deps.Recipes,
		favorites: deps.Favorites,
		carts:     deps.Carts,
		users:     deps.Users,
		present:   deps.presenter(),
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Newest first. Favorite and cart filters apply to authenticated users only.
// @Tags recipes
// @Produce json
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any of" collectionFormat(multi)
// @Param is_favorited query int false "1 to list only favorites"
// @Param is_in_shopping_cart query int false "1 to list only recipes in the shopping cart"
// @Success 200 {array} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Router /api/v1/recipes [get]
func (rc *recipeController) ListRecipes(c *gin.Context) {
	viewer := viewerID(c)
	filter := services.RecipeFilter{TagSlugs: c.QueryArray("tags")}

	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid author format"))
			return
		}
		filter.AuthorID = uint(authorID)
	}
	if viewer != 0 {
		if isTruthy(c.Query("is_favorited")) {
			filter.FavoritedBy = viewer
		}
		if isTruthy(c.Query("is_in_shopping_cart")) {
			filter.InCartOf = viewer
		}
	}

	recipes, err := rc.recipes.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := rc.present.recipeList(c.Request.Context(), viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/recipes/{id} [get]
func (rc *recipeController) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := rc.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	rc.respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.RecipeRequest true "Recipe"
// @Success 201 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes [post]
func (rc *recipeController) CreateRecipe(c *gin.Context) {
	var req models.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := rc.recipes.CreateRecipe(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	rc.respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Replaces the fields, the tag set and the ingredient list. Author or admin only.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body models.RecipeRequest true "Recipe"
// @Success 200 {object} models.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [patch]
func (rc *recipeController) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := rc.recipes.UpdateRecipe(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	rc.respondRecipe(c, http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [delete]
func (rc *recipeController) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := rc.recipes.DeleteRecipe(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite godoc
// @Summary Add to favorites
// @Tags favorites
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShortResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id}/favorite [post]
func (rc *recipeController) AddFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := rc.favorites.AddFavorite(c.Request.Context(), viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewRecipeShortResponse(*recipe))
}

// RemoveFavorite godoc
// @Summary Remove from favorites
// @Tags favorites
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id}/favorite [delete]
func (rc *recipeController) RemoveFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := rc.favorites.RemoveFavorite(c.Request.Context(), viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToShoppingCart godoc
// @Summary Add to shopping cart
// @Tags shopping cart
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShortResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id}/shopping_cart [post]
func (rc *recipeController) AddToShoppingCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := rc.carts.AddToCart(c.Request.Context(), viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewRecipeShortResponse(*recipe))
}

// RemoveFromShoppingCart godoc
// @Summary Remove from shopping cart
// @Tags shopping cart
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id}/shopping_cart [delete]
func (rc *recipeController) RemoveFromShoppingCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := rc.carts.RemoveFromCart(c.Request.Context(), viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart godoc
// @Summary Download shopping list
// @Description Ingredients of every recipe in the cart, amounts summed per name and unit
// @Tags shopping cart
// @Produce plain
// @Success 200 {string} string "name: amount unit."
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/download_shopping_cart [get]
func (rc *recipeController) DownloadShoppingCart(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := rc.users.GetUserByID(ctx, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := rc.carts.BuildShoppingList(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_shopping_list.txt"`, user.Username))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}

func (rc *recipeController) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	out, err := rc.present.recipe(c.Request.Context(), viewerID(c), *recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}
