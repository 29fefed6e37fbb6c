package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves tags and ingredients
type CatalogController interface {
	ListTags(c *gin.Context)
	GetTag(c *gin.Context)
	CreateTag(c *gin.Context)
	ListIngredients(c *gin.Context)
	GetIngredient(c *gin.Context)
	CreateIngredient(c *gin.Context)
}

type catalogController struct {
	tags        services.TagService
	ingredients services.IngredientService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(deps Dependencies) *catalogController {
	return &catalogController{tags: deps.Tags, ingredients: deps.Ingredients}
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/v1/tags [get]
func (cc *catalogController) ListTags(c *gin.Context) {
	tags, err := cc.tags.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get tag by ID
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 404 {object} models.APIError
// @Router /api/v1/tags/{id} [get]
func (cc *catalogController) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := cc.tags.GetTagByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body models.TagRequest true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/tags [post]
func (cc *catalogController) CreateTag(c *gin.Context) {
	var req models.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := cc.tags.CreateTag(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// ListIngredients godoc
// @Summary List ingredients
// @Description Optional case-insensitive name prefix filter
// @Tags ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} models.Ingredient
// @Router /api/v1/ingredients [get]
func (cc *catalogController) ListIngredients(c *gin.Context) {
	ingredients, err := cc.ingredients.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get ingredient by ID
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} models.APIError
// @Router /api/v1/ingredients/{id} [get]
func (cc *catalogController) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := cc.ingredients.GetIngredientByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient godoc
// @Summary Create an ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param ingredient body models.IngredientRequest true "Ingredient"
// @Success 201 {object} models.Ingredient
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/ingredients [post]
func (cc *catalogController) CreateIngredient(c *gin.Context) {
	var req models.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := cc.ingredients.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}
