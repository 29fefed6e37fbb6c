package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req models.RegisterUserRequest) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetPassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	SetAvatar(ctx context.Context, userID uint, avatar string) (*models.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
	SetRole(ctx context.Context, userID uint, role string) error
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  req.Password,
		Role:      models.RoleUser,
	}
	if !validation.IsValidUsername(user.Username) {
		return nil, invalid("username", "username must be %d-%d letters, digits or @/./+/-/_",
			validation.UsernameMinLength, validation.UsernameMaxLength)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExists
	}

	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return ErrInvalidCredentials
	}

	user.Password = newPassword
	if err := user.HashPassword(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password", user.Password).Error
}

func (s *userService) SetAvatar(ctx context.Context, userID uint, avatar string) (*models.User, error) {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return nil, invalid("avatar", "avatar must not be empty")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", avatar).Error; err != nil {
		return nil, err
	}
	user.Avatar = &avatar
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("avatar", nil).Error
}

func (s *userService) SetRole(ctx context.Context, userID uint, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return invalid("role", "role must be %q or %q", models.RoleUser, models.RoleAdmin)
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
