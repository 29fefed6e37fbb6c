package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// ShoppingCartService manages the recipes a user plans to cook and renders their shopping list
type ShoppingCartService interface {
	AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
	// InCartRecipeIDs reports which of recipeIDs are in userID's cart
	InCartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	// BuildShoppingList renders the aggregated list, ErrEmptyShoppingCart when there is nothing to buy
	BuildShoppingList(ctx context.Context, userID uint) (string, error)
}

type shoppingCartService struct {
	db *gorm.DB
}

func NewShoppingCartService(db *gorm.DB) ShoppingCartService {
	return &shoppingCartService{db: db}
}

func (s *shoppingCartService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := findRecipe(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyInCart
	}

	entry := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Omit("Recipe").Create(&entry).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return recipe, nil
}

func (s *shoppingCartService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	if _, err := findRecipe(ctx, s.db, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInCart
	}
	return nil
}

func (s *shoppingCartService) InCartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return flaggedRecipeIDs(ctx, s.db.Model(&models.ShoppingCart{}), userID, recipeIDs)
}

func (s *shoppingCartService) BuildShoppingList(ctx context.Context, userID uint) (string, error) {
	var carts []models.ShoppingCart
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Recipe.Ingredients.Ingredient").
		Where("user_id = ?", userID).
		Order("id").
		Find(&carts).Error
	if err != nil {
		return "", err
	}

	items := AggregateShoppingList(carts)
	if len(items) == 0 {
		return "", ErrEmptyShoppingCart
	}

	metrics.RecordShoppingList(len(items))
	log.WithField("user_id", userID).WithField("items", len(items)).Debug("Shopping list rendered")
	return RenderShoppingList(items), nil
}
