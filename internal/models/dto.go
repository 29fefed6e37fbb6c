package models

// Request payloads. Binding tags are checked by gin's validator engine,
// username and slug are registered by the validation package.

type RegisterUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,min=2,max=150,username"`
	FirstName string `json:"first_name" binding:"required,min=2,max=150"`
	LastName  string `json:"last_name" binding:"required,min=2,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type TagRequest struct {
	Name string `json:"name" binding:"required,max=150"`
	Slug string `json:"slug" binding:"required,max=150,slug"`
}

type IngredientRequest struct {
	Name            string `json:"name" binding:"required,max=150"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=150"`
}

type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is validated by the recipe service rather than binding tags,
// so each rejected field gets a domain specific message
type RecipeRequest struct {
	Name        string                  `json:"name"`
	Image       string                  `json:"image"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
	Tags        []uint                  `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// Responses

type UserResponse struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar"`
	IsSubscribed bool    `json:"is_subscribed"`
}

type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// NewRecipeShortResponse builds the compact recipe view
func NewRecipeShortResponse(r Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
