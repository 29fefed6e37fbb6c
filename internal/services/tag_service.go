package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// TagService provides read access to tags and admin creation
type TagService interface {
	// ListTags returns every tag ordered by name
	ListTags(ctx context.Context) ([]models.Tag, error)
	// GetTagByID returns ErrTagNotFound for unknown IDs
	GetTagByID(ctx context.Context, id uint) (*models.Tag, error)
	// CreateTag rejects duplicate names or slugs with ErrTagAlreadyExists
	CreateTag(ctx context.Context, req models.TagRequest) (*models.Tag, error)
	// GetTagsByIDs resolves all IDs or fails with ErrTagNotFound naming the first unknown one
	GetTagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
}

type tagService struct {
	db    *gorm.DB
	cache *lookupCache
}

// NewTagService creates a TagService backed by an LRU lookup cache of cacheSize entries
func NewTagService(db *gorm.DB, cacheSize int) (TagService, error) {
	cache, err := newLookupCache("tag", cacheSize)
	if err != nil {
		return nil, err
	}
	return &tagService{db: db, cache: cache}, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	for _, tag := range tags {
		s.cache.add(tag.ID, tag)
	}
	return tags, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id uint) (*models.Tag, error) {
	if v, ok := s.cache.get(id); ok {
		tag := v.(models.Tag)
		return &tag, nil
	}

	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	s.cache.add(tag.ID, tag)
	return &tag, nil
}

func (s *tagService) CreateTag(ctx context.Context, req models.TagRequest) (*models.Tag, error) {
	tag := models.Tag{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.TrimSpace(req.Slug),
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("name = ? OR slug = ?", tag.Name, tag.Slug).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTagAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrTagAlreadyExists
		}
		return nil, err
	}
	s.cache.add(tag.ID, tag)
	return &tag, nil
}

func (s *tagService) GetTagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	found := make(map[uint]models.Tag, len(ids))
	var missing []uint
	for _, id := range ids {
		if v, ok := s.cache.get(id); ok {
			found[id] = v.(models.Tag)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		var tags []models.Tag
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&tags).Error; err != nil {
			return nil, err
		}
		for _, tag := range tags {
			found[tag.ID] = tag
			s.cache.add(tag.ID, tag)
		}
	}

	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrTagNotFound, id)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
