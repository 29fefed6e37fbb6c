package models

import (
	"time"
)

// Favorite is a user's bookmark of a recipe
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_favorite"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_user_favorite"`
	Recipe    Recipe
	CreatedAt time.Time
}

// ShoppingCart marks a recipe for the user's shopping list
type ShoppingCart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_cart"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_user_cart"`
	Recipe    Recipe
	CreatedAt time.Time
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription is a follower relationship, UserID follows AuthorID
type Subscription struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_author;check:chk_no_self_subscription,user_id <> author_id"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_user_author"`
	Author    User `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time
}

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}
