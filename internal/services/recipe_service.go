package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows ListRecipes. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID uint
	// TagSlugs matches recipes carrying any of the slugs
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

// RecipeService handles recipe reads and validated writes
type RecipeService interface {
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, actor Actor, req models.RecipeRequest) (*models.Recipe, error)
	// UpdateRecipe replaces the scalar fields, the tag set and the ingredient list
	UpdateRecipe(ctx context.Context, actor Actor, id uint, req models.RecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actor Actor, id uint) error
	// RecipesByAuthor returns at most limit newest recipes (all when limit <= 0) and the total count
	RecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error)
}

type recipeService struct {
	db          *gorm.DB
	tags        TagService
	ingredients IngredientService
}

func NewRecipeService(db *gorm.DB, tags TagService, ingredients IngredientService) RecipeService {
	return &recipeService{db: db, tags: tags, ingredients: ingredients}
}

// withDetails preloads everything the full recipe representation needs
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Select("recipe_ingredients.*").
				Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
				Order("ingredients.name")
		}).
		Preload("Ingredients.Ingredient")
}

func (s *recipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx)
	query := withDetails(db.Model(&models.Recipe{}))

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != 0 {
		favorited := db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InCartOf != 0 {
		inCart := db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.published_at DESC").Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, actor Actor, req models.RecipeRequest) (*models.Recipe, error) {
	tags, items, err := s.validate(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    actor.UserID,
		Name:        strings.TrimSpace(req.Name),
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return createRecipeIngredients(tx, recipe.ID, items)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, invalid("name", "a recipe with this name already exists")
		}
		return nil, err
	}

	metrics.RecipesCreated.Inc()
	log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"author_id": actor.UserID,
	}).Info("Recipe created")

	return s.GetRecipe(ctx, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, actor Actor, id uint, req models.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	tags, items, err := s.validate(ctx, req, recipe.ID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         strings.TrimSpace(req.Name),
			"image":        req.Image,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createRecipeIngredients(tx, recipe.ID, items)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, invalid("name", "a recipe with this name already exists")
		}
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, actor Actor, id uint) error {
	recipe, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (s *recipeService) RecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Where("author_id = ?", authorID).Order("published_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// loadForWrite fetches the recipe and checks that actor may change it
func (s *recipeService) loadForWrite(ctx context.Context, actor Actor, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actor.UserID && !actor.IsAdmin {
		return nil, ErrRecipeForbidden
	}
	return &recipe, nil
}

// validate checks a write request and resolves its tags and ingredient rows.
// excludeID skips the recipe being updated in the name uniqueness check.
func (s *recipeService) validate(ctx context.Context, req models.RecipeRequest, excludeID uint) ([]models.Tag, []models.RecipeIngredient, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, nil, invalid("name", "name is required")
	case utf8.RuneCountInString(name) > models.NameMaxLength:
		return nil, nil, invalid("name", "name must be at most %d characters", models.NameMaxLength)
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&taken).Error; err != nil {
		return nil, nil, err
	}
	if taken > 0 {
		return nil, nil, invalid("name", "a recipe with this name already exists")
	}

	if strings.TrimSpace(req.Image) == "" {
		return nil, nil, invalid("image", "image is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, nil, invalid("text", "text is required")
	}
	if req.CookingTime < models.MinCookingTime || req.CookingTime > models.MaxCookingTime {
		return nil, nil, invalid("cooking_time", "cooking time must be between %d and %d minutes",
			models.MinCookingTime, models.MaxCookingTime)
	}

	items, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, nil, err
	}
	return tags, items, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, inputs []models.RecipeIngredientInput) ([]models.RecipeIngredient, error) {
	if len(inputs) == 0 {
		return nil, invalid("ingredients", "at least one ingredient is required")
	}

	seen := make(map[uint]bool, len(inputs))
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if seen[in.ID] {
			return nil, invalid("ingredients", "ingredient %d is listed more than once", in.ID)
		}
		if in.Amount < 1 {
			return nil, invalid("ingredients", "amount of ingredient %d must be at least 1", in.ID)
		}
		seen[in.ID] = true
		ids = append(ids, in.ID)
	}

	if _, err := s.ingredients.GetIngredientsByIDs(ctx, ids); err != nil {
		if errors.Is(err, ErrIngredientNotFound) {
			return nil, invalid("ingredients", "%v", err)
		}
		return nil, err
	}

	items := make([]models.RecipeIngredient, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount})
	}
	return items, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, invalid("tags", "at least one tag is required")
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalid("tags", "tag %d is listed more than once", id)
		}
		seen[id] = true
	}

	tags, err := s.tags.GetTagsByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			return nil, invalid("tags", "%v", err)
		}
		return nil, err
	}
	return tags, nil
}

func createRecipeIngredients(tx *gorm.DB, recipeID uint, items []models.RecipeIngredient) error {
	for i := range items {
		items[i].ID = 0
		items[i].RecipeID = recipeID
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}
