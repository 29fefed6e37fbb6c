package models

// Tag is a label recipes can be filtered by
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:150;not null" json:"slug"`
}

// Ingredient is a catalogue entry with its measurement unit
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"uniqueIndex;uniqueIndex:idx_ingredient_name_unit;size:150;not null" json:"name"`
	MeasurementUnit string `gorm:"uniqueIndex:idx_ingredient_name_unit;size:150;not null" json:"measurement_unit"`
}
