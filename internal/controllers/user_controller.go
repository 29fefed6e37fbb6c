package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController handles HTTP requests related to users and subscriptions
type UserController interface {
	// Register creates a new account
	Register(c *gin.Context)
	// ListUsers retrieves all users
	ListUsers(c *gin.Context)
	// GetUser retrieves a user by ID
	GetUser(c *gin.Context)
	// Me retrieves the authenticated user
	Me(c *gin.Context)
	// SetPassword changes the authenticated user's password
	SetPassword(c *gin.Context)
	// SetAvatar replaces the authenticated user's avatar
	SetAvatar(c *gin.Context)
	// DeleteAvatar removes the authenticated user's avatar
	DeleteAvatar(c *gin.Context)
	// ListSubscriptions retrieves the authors the authenticated user follows
	ListSubscriptions(c *gin.Context)
	// Subscribe follows an author
	Subscribe(c *gin.Context)
	// Unsubscribe stops following an author
	Unsubscribe(c *gin.Context)
}

type userController struct {
	users         services.UserService
	subscriptions services.SubscriptionService
	present       *presenter
}

// NewUserController creates a new instance of UserController
func NewUserController(deps Dependencies) *userController {
	return &userController{
		users:         deps.Users,
		subscriptions: deps.Subscriptions,
		present:       deps.presenter(),
	}
}

// Register godoc
// @Summary Register a user
// @Description Create a new account. The password is stored as a bcrypt hash.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.RegisterUserRequest true "Account details"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.APIError
// @Router /api/v1/users [post]
func (uc *userController) Register(c *gin.Context) {
	var req models.RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	log.WithField("user_id", user.ID).Info("User registered")
	c.JSON(http.StatusCreated, newUserResponse(*user, false))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 500 {object} models.APIError
// @Router /api/v1/users [get]
func (uc *userController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := uc.present.users(c.Request.Context(), viewerID(c), users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetUser godoc
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/users/{id} [get]
func (uc *userController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := uc.present.user(c.Request.Context(), viewerID(c), *user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (uc *userController) Me(c *gin.Context) {
	user, err := uc.users.GetUserByID(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

// SetPassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Param passwords body models.SetPasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/set_password [post]
func (uc *userController) SetPassword(c *gin.Context) {
	var req models.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := uc.users.SetPassword(c.Request.Context(), viewerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAvatar godoc
// @Summary Set avatar
// @Tags users
// @Accept json
// @Produce json
// @Param avatar body models.AvatarRequest true "Encoded image"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/me/avatar [put]
func (uc *userController) SetAvatar(c *gin.Context) {
	var req models.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.SetAvatar(c.Request.Context(), viewerID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar})
}

// DeleteAvatar godoc
// @Summary Remove avatar
// @Tags users
// @Success 204
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/me/avatar [delete]
func (uc *userController) DeleteAvatar(c *gin.Context) {
	if err := uc.users.DeleteAvatar(c.Request.Context(), viewerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions godoc
// @Summary My subscriptions
// @Description Authors the current user follows, each with their newest recipes
// @Tags subscriptions
// @Produce json
// @Param recipes_limit query int false "Maximum recipes per author"
// @Success 200 {array} models.SubscriptionResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/subscriptions [get]
func (uc *userController) ListSubscriptions(c *gin.Context) {
	limit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	authors, err := uc.subscriptions.ListSubscriptions(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]models.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		entry, err := uc.present.subscription(c.Request.Context(), author, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

// Subscribe godoc
// @Summary Subscribe to an author
// @Tags subscriptions
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Maximum recipes in the response"
// @Success 201 {object} models.SubscriptionResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/{id}/subscribe [post]
func (uc *userController) Subscribe(c *gin.Context) {
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	author, err := uc.subscriptions.Subscribe(c.Request.Context(), viewerID(c), authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := uc.present.subscription(c.Request.Context(), *author, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Unsubscribe godoc
// @Summary Unsubscribe from an author
// @Tags subscriptions
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/users/{id}/subscribe [delete]
func (uc *userController) Unsubscribe(c *gin.Context) {
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := uc.subscriptions.Unsubscribe(c.Request.Context(), viewerID(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
