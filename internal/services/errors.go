package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by the services. Controllers map them to HTTP statuses.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("a user with this email or username already exists")
	ErrInvalidCredentials = errors.New("current password is incorrect")

	ErrTagNotFound        = errors.New("tag not found")
	ErrTagAlreadyExists   = errors.New("a tag with this name or slug already exists")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("this ingredient already exists")

	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrRecipeForbidden = errors.New("only the author or an admin can modify this recipe")

	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe is not in favorites")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe is not in the shopping cart")
	ErrEmptyShoppingCart = errors.New("shopping cart is empty")

	ErrSelfSubscription  = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("you are already subscribed to this user")
	ErrNotSubscribed     = errors.New("you are not subscribed to this user")
)

// ValidationError reports a rejected field of a write request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Actor is the authenticated user performing a write
type Actor struct {
	UserID  uint
	IsAdmin bool
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
