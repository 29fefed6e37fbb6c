package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Recipe errors
	ErrRecipeNotFound        = "RECIPE_NOT_FOUND"
	ErrRecipeInvalidData     = "RECIPE_INVALID_DATA"
	ErrRecipeForbidden       = "RECIPE_FORBIDDEN"
	ErrShoppingCartEmpty     = "SHOPPING_CART_EMPTY"
	ErrAlreadyInFavorites    = "ALREADY_IN_FAVORITES"
	ErrNotInFavorites        = "NOT_IN_FAVORITES"
	ErrAlreadyInShoppingCart = "ALREADY_IN_SHOPPING_CART"
	ErrNotInShoppingCart     = "NOT_IN_SHOPPING_CART"

	// User errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrSelfSubscription   = "SELF_SUBSCRIPTION"
	ErrAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrNotSubscribed      = "NOT_SUBSCRIBED"

	// Catalogue errors
	ErrTagNotFound        = "TAG_NOT_FOUND"
	ErrIngredientNotFound = "INGREDIENT_NOT_FOUND"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
