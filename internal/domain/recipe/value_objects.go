package recipe

import "strings"

// Value Objects - Immutable objects that describe aspects of the domain

// MacroProfile contains per-serving nutritional values.
// Accumulation happens at full precision; rounding is an exposure concern.
type MacroProfile struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	SugarG   float64
	SodiumMG float64
	SatFatG  float64
}

// Add returns the field-wise sum of two profiles
func (m MacroProfile) Add(o MacroProfile) MacroProfile {
	return MacroProfile{
		Calories: m.Calories + o.Calories,
		ProteinG: m.ProteinG + o.ProteinG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FatG:     m.FatG + o.FatG,
		SugarG:   m.SugarG + o.SugarG,
		SodiumMG: m.SodiumMG + o.SodiumMG,
		SatFatG:  m.SatFatG + o.SatFatG,
	}
}

// Scale returns the profile multiplied by a portion factor
func (m MacroProfile) Scale(factor float64) MacroProfile {
	return MacroProfile{
		Calories: m.Calories * factor,
		ProteinG: m.ProteinG * factor,
		CarbsG:   m.CarbsG * factor,
		FatG:     m.FatG * factor,
		SugarG:   m.SugarG * factor,
		SodiumMG: m.SodiumMG * factor,
		SatFatG:  m.SatFatG * factor,
	}
}

// Ingredient represents an ingredient of the corpus, referenced by recipes.
type Ingredient struct {
	ID           int64
	Name         string
	FoodGroup    string
	AllergenTags []string

	// Nutritional values per 100 grams
	KcalPer100G     float64
	ProteinPer100G  float64
	CarbsPer100G    float64
	FatPer100G      float64
	SugarPer100G    float64
	SodiumMGPer100G float64
	SatFatPer100G   float64
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if i.ID <= 0 {
		return ErrInvalidIngredientID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyIngredientName
	}
	return nil
}

// MacrosFor computes the macro contribution of the given grams of this
// ingredient, using the per-100g columns.
func (i Ingredient) MacrosFor(grams float64) MacroProfile {
	factor := grams / 100.0
	return MacroProfile{
		Calories: i.KcalPer100G * factor,
		ProteinG: i.ProteinPer100G * factor,
		CarbsG:   i.CarbsPer100G * factor,
		FatG:     i.FatPer100G * factor,
		SugarG:   i.SugarPer100G * factor,
		SodiumMG: i.SodiumMGPer100G * factor,
		SatFatG:  i.SatFatPer100G * factor,
	}
}

// MatchesAllergen reports whether the allergen substring occurs in the
// ingredient name or any explicit allergen tag (all lowercased).
func (i Ingredient) MatchesAllergen(allergen string) bool {
	if strings.Contains(strings.ToLower(i.Name), allergen) {
		return true
	}
	for _, tag := range i.AllergenTags {
		if strings.Contains(strings.ToLower(tag), allergen) {
			return true
		}
	}
	return false
}

// MealType represents a recipe's meal-type affinity
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeAny       MealType = "any"
)

// Valid reports whether the meal type is a known value
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeAny:
		return true
	}
	return false
}

// ParseMealType normalizes a raw dataset value into a MealType.
// Unknown values map to MealTypeAny rather than failing the load.
func ParseMealType(s string) MealType {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	if mt.Valid() {
		return mt
	}
	return MealTypeAny
}

// DietType represents a dietary classification
type DietType string

const (
	DietTypeVegan         DietType = "vegan"
	DietTypeVegetarian    DietType = "vegetarian"
	DietTypeNonVegetarian DietType = "non-vegetarian"
)

// Valid reports whether the diet type is a known value
func (d DietType) Valid() bool {
	switch d {
	case DietTypeVegan, DietTypeVegetarian, DietTypeNonVegetarian:
		return true
	}
	return false
}

// Allows reports whether a recipe of diet type r is acceptable under the
// requested diet constraint d. Vegetarian requests accept vegan recipes;
// non-vegetarian requests accept everything.
func (d DietType) Allows(r DietType) bool {
	switch d {
	case DietTypeNonVegetarian:
		return true
	case DietTypeVegetarian:
		return r == DietTypeVegetarian || r == DietTypeVegan
	case DietTypeVegan:
		return r == DietTypeVegan
	}
	return true
}

// ParseDietType normalizes a raw dataset value into a DietType.
// Unknown values are treated as non-vegetarian, the least restrictive class.
func ParseDietType(s string) DietType {
	dt := DietType(strings.ToLower(strings.TrimSpace(s)))
	if dt.Valid() {
		return dt
	}
	return DietTypeNonVegetarian
}

// Goal represents the user's stated objective
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainMuscle Goal = "gain_muscle"
)

// Valid reports whether the goal is a known value
func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalMaintain, GoalGainMuscle:
		return true
	}
	return false
}
