package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// FavoriteService manages a user's favorite recipes
type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	// FavoritedRecipeIDs reports which of recipeIDs userID has favorited
	FavoritedRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type favoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) FavoriteService {
	return &favoriteService{db: db}
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := findRecipe(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyFavorited
	}

	favorite := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Omit("Recipe").Create(&favorite).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return recipe, nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	if _, err := findRecipe(ctx, s.db, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

func (s *favoriteService) FavoritedRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return flaggedRecipeIDs(ctx, s.db.Model(&models.Favorite{}), userID, recipeIDs)
}

// findRecipe loads a recipe without associations
func findRecipe(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// flaggedRecipeIDs returns the subset of recipeIDs that userID has a row for in the model's table
func flaggedRecipeIDs(ctx context.Context, model *gorm.DB, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	flagged := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return flagged, nil
	}

	var ids []uint
	err := model.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		flagged[id] = true
	}
	return flagged, nil
}
