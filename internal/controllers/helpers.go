package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the controllers logger
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// errorMapping binds a service sentinel error to its HTTP status and error code
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrUserNotFound, http.StatusNotFound, models.ErrUserNotFound},
	{services.ErrUserAlreadyExists, http.StatusBadRequest, models.ErrUserAlreadyExists},
	{services.ErrInvalidCredentials, http.StatusBadRequest, models.ErrInvalidCredentials},
	{services.ErrTagNotFound, http.StatusNotFound, models.ErrTagNotFound},
	{services.ErrTagAlreadyExists, http.StatusBadRequest, models.ErrConflict},
	{services.ErrIngredientNotFound, http.StatusNotFound, models.ErrIngredientNotFound},
	{services.ErrIngredientExists, http.StatusBadRequest, models.ErrConflict},
	{services.ErrRecipeNotFound, http.StatusNotFound, models.ErrRecipeNotFound},
	{services.ErrRecipeForbidden, http.StatusForbidden, models.ErrRecipeForbidden},
	{services.ErrAlreadyFavorited, http.StatusBadRequest, models.ErrAlreadyInFavorites},
	{services.ErrNotFavorited, http.StatusBadRequest, models.ErrNotInFavorites},
	{services.ErrAlreadyInCart, http.StatusBadRequest, models.ErrAlreadyInShoppingCart},
	{services.ErrNotInCart, http.StatusBadRequest, models.ErrNotInShoppingCart},
	{services.ErrEmptyShoppingCart, http.StatusBadRequest, models.ErrShoppingCartEmpty},
	{services.ErrSelfSubscription, http.StatusBadRequest, models.ErrSelfSubscription},
	{services.ErrAlreadySubscribed, http.StatusBadRequest, models.ErrAlreadySubscribed},
	{services.ErrNotSubscribed, http.StatusBadRequest, models.ErrNotSubscribed},
}

// respondError writes the APIError body matching err. Unknown errors are logged and become 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, verr.Message,
			map[string]interface{}{"field": verr.Field}))
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, models.NewAPIError(m.code, err.Error()))
			return
		}
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"route":      c.FullPath(),
		"request_id": c.GetString(middleware.ContextRequestID),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
}

// bindJSON decodes the body into obj and answers 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		message, details := validation.Describe(err)
		if details == nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body: "+message))
			return false
		}
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, message, details))
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+param+" format"))
		return 0, false
	}
	return uint(id), true
}

// parseRecipesLimit reads the optional recipes_limit query parameter, 0 means unlimited
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "recipes_limit must be a non-negative integer"))
		return 0, false
	}
	return limit, true
}

// viewerID is the authenticated user, 0 for anonymous requests
func viewerID(c *gin.Context) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{UserID: viewerID(c), IsAdmin: middleware.IsAdmin(c)}
}

func isTruthy(v string) bool {
	switch v {
	case "1", "true", "True":
		return true
	}
	return false
}
