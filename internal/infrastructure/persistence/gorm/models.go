// Package gorm provides GORM model definitions for the SQLite corpus store
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IngredientModel represents one row of the ingredient table, nutritional
// values per 100 grams.
type IngredientModel struct {
	ID              int64       `gorm:"primaryKey"`
	Name            string      `gorm:"type:varchar(255);not null;index"`
	FoodGroup       string      `gorm:"type:varchar(100)"`
	AllergenTags    StringSlice `gorm:"type:json"`
	KcalPer100G     float64     `gorm:"column:kcal_per_100g"`
	ProteinPer100G  float64     `gorm:"column:protein_per_100g"`
	CarbsPer100G    float64     `gorm:"column:carbs_per_100g"`
	FatPer100G      float64     `gorm:"column:fat_per_100g"`
	SugarPer100G    float64     `gorm:"column:sugar_per_100g"`
	SodiumMGPer100G float64     `gorm:"column:sodium_mg_per_100g"`
	SatFatPer100G   float64     `gorm:"column:sat_fat_per_100g"`
}

// TableName overrides the table name
func (IngredientModel) TableName() string {
	return "ingredients"
}

// RecipeModel represents one recipe row. Ingredient references are stored
// as the same JSON shape the CSV dataset uses.
type RecipeModel struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null;index"`
	MealType       string    `gorm:"type:varchar(20);index"`
	DietType       string    `gorm:"type:varchar(20);index"`
	UltraProcessed bool      `gorm:"default:false"`
	PrepTimeMin    int       `gorm:"column:prep_time_min;default:0"`
	Ingredients    JSONField `gorm:"type:json"`
}

// TableName overrides the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONField custom type for arbitrary JSON columns
type JSONField json.RawMessage

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = JSONField(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	return string(j), nil
}
