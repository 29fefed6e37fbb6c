package models

import (
	"time"
)

const (
	NameMaxLength  = 150
	MinCookingTime = 1
	MaxCookingTime = 222
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	AuthorID    uint      `gorm:"not null;index"`
	Author      User      `gorm:"foreignKey:AuthorID"`
	Name        string    `gorm:"uniqueIndex;size:150;not null"`
	Image       string    `gorm:"not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null"`
	Tags        []Tag     `gorm:"many2many:recipe_tags;"`
	Ingredients []RecipeIngredient
	PublishedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time
}

// RecipeIngredient joins a recipe to a catalogue ingredient with an amount
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient
	Amount       int `gorm:"not null;check:amount > 0"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
