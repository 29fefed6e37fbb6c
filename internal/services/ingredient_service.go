package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// IngredientService provides the ingredient catalogue
type IngredientService interface {
	// ListIngredients returns ingredients whose name starts with prefix (case-insensitive), ordered by name
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	// GetIngredientByID returns ErrIngredientNotFound for unknown IDs
	GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error)
	// CreateIngredient rejects an existing name with ErrIngredientExists
	CreateIngredient(ctx context.Context, req models.IngredientRequest) (*models.Ingredient, error)
	// GetIngredientsByIDs resolves all IDs or fails with ErrIngredientNotFound
	GetIngredientsByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error)
	// ImportIngredients inserts the missing (name, unit) rows and returns how many were created
	ImportIngredients(ctx context.Context, rows []models.IngredientRequest) (int, error)
}

type ingredientService struct {
	db    *gorm.DB
	cache *lookupCache
}

// NewIngredientService creates an IngredientService backed by an LRU lookup cache
func NewIngredientService(db *gorm.DB, cacheSize int) (IngredientService, error) {
	cache, err := newLookupCache("ingredient", cacheSize)
	if err != nil {
		return nil, err
	}
	return &ingredientService{db: db, cache: cache}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *ingredientService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	if v, ok := s.cache.get(id); ok {
		ingredient := v.(models.Ingredient)
		return &ingredient, nil
	}

	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	s.cache.add(ingredient.ID, ingredient)
	return &ingredient, nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req models.IngredientRequest) (*models.Ingredient, error) {
	ingredient := models.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("name = ?", ingredient.Name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrIngredientExists
	}

	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	s.cache.add(ingredient.ID, ingredient)
	return &ingredient, nil
}

func (s *ingredientService) GetIngredientsByIDs(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	found := make(map[uint]models.Ingredient, len(ids))
	var missing []uint
	for _, id := range ids {
		if v, ok := s.cache.get(id); ok {
			found[id] = v.(models.Ingredient)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		var ingredients []models.Ingredient
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&ingredients).Error; err != nil {
			return nil, err
		}
		for _, ingredient := range ingredients {
			found[ingredient.ID] = ingredient
			s.cache.add(ingredient.ID, ingredient)
		}
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, id)
		}
	}
	return found, nil
}

func (s *ingredientService) ImportIngredients(ctx context.Context, rows []models.IngredientRequest) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			if name == "" {
				continue
			}
			var existing int64
			if err := tx.Model(&models.Ingredient{}).Where("name = ?", name).Count(&existing).Error; err != nil {
				return fmt.Errorf("import %q: %w", name, err)
			}
			if existing > 0 {
				continue
			}

			ingredient := models.Ingredient{
				Name:            name,
				MeasurementUnit: strings.TrimSpace(row.MeasurementUnit),
			}
			if err := tx.Create(&ingredient).Error; err != nil {
				return fmt.Errorf("import %q: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
