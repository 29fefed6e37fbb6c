package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// SubscriptionService manages follower relationships between users
type SubscriptionService interface {
	// Subscribe makes userID follow authorID and returns the author
	Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error)
	// Unsubscribe removes the relationship, ErrNotSubscribed when absent
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	// ListSubscriptions returns the authors userID follows, ordered by username
	ListSubscriptions(ctx context.Context, userID uint) ([]models.User, error)
	// SubscribedAuthorIDs reports which of authorIDs userID follows
	SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

type subscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) SubscriptionService {
	return &subscriptionService{db: db}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	subscription := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Omit("Author").Create(&subscription).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return &author, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	var author models.User
	if err := s.db.WithContext(ctx).Select("id").First(&author, authorID).Error; err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID uint) ([]models.User, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("users.username").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

func (s *subscriptionService) SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}
