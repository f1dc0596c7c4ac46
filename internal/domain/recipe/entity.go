// Package recipe contains the core domain model for the recipe corpus.
// Recipes are loaded once at process start and treated as read-only for
// the process lifetime, so the entity exposes getters only.
package recipe

import "strings"

// Recipe represents one entry of the recipe corpus.
// Immutable once constructed; owned exclusively by the corpus index.
type Recipe struct {
	id             int64
	name           string
	mealType       MealType
	dietType       DietType
	ultraProcessed bool
	prepTimeMin    int

	ingredients     []IngredientRef
	ingredientNames []string // lowercased display names
	allergenTerms   []string // names plus explicit allergen tags, lowercased

	macros MacroProfile
}

// IngredientRef binds an ingredient to a recipe with a quantity in grams.
type IngredientRef struct {
	IngredientID int64
	Grams        float64
}

// NewRecipe creates a corpus recipe with validation.
func NewRecipe(
	id int64,
	name string,
	mealType MealType,
	dietType DietType,
	ultraProcessed bool,
	prepTimeMin int,
	ingredients []IngredientRef,
	ingredientNames []string,
	allergenTags []string,
	macros MacroProfile,
) (*Recipe, error) {
	if id <= 0 {
		return nil, ErrInvalidRecipeID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyRecipeName
	}
	if !mealType.Valid() {
		return nil, ErrInvalidMealType
	}
	if !dietType.Valid() {
		return nil, ErrInvalidDietType
	}
	if macros.Calories < 0 {
		return nil, ErrNegativeCalories
	}

	lowered := make([]string, 0, len(ingredientNames))
	for _, n := range ingredientNames {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			lowered = append(lowered, n)
		}
	}

	// Explicit tags extend, never replace, substring matching on names
	terms := make([]string, 0, len(lowered)+len(allergenTags))
	terms = append(terms, lowered...)
	for _, t := range allergenTags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}

	return &Recipe{
		id:              id,
		name:            strings.TrimSpace(name),
		mealType:        mealType,
		dietType:        dietType,
		ultraProcessed:  ultraProcessed,
		prepTimeMin:     prepTimeMin,
		ingredients:     ingredients,
		ingredientNames: lowered,
		allergenTerms:   terms,
		macros:          macros,
	}, nil
}

// ID returns the recipe's stable corpus identifier
func (r *Recipe) ID() int64 {
	return r.id
}

// Name returns the recipe's display name
func (r *Recipe) Name() string {
	return r.name
}

// MealType returns the recipe's meal-type affinity
func (r *Recipe) MealType() MealType {
	return r.mealType
}

// DietType returns the recipe's dietary classification
func (r *Recipe) DietType() DietType {
	return r.dietType
}

// UltraProcessed reports whether the recipe is flagged ultra-processed
func (r *Recipe) UltraProcessed() bool {
	return r.ultraProcessed
}

// PrepTimeMin returns the preparation time in minutes
func (r *Recipe) PrepTimeMin() int {
	return r.prepTimeMin
}

// Ingredients returns the recipe's ingredient references
func (r *Recipe) Ingredients() []IngredientRef {
	return r.ingredients
}

// IngredientNames returns the lowercased ingredient display names
func (r *Recipe) IngredientNames() []string {
	return r.ingredientNames
}

// Macros returns the per-serving macro profile
func (r *Recipe) Macros() MacroProfile {
	return r.macros
}

// FitsSlot reports whether the recipe can fill a slot of the given meal type.
// Recipes with MealTypeAny fit every slot.
func (r *Recipe) FitsSlot(mt MealType) bool {
	return r.mealType == MealTypeAny || r.mealType == mt
}

// MatchesAllergen reports whether any ingredient name or explicit allergen
// tag contains the given lowercased allergen string. Substring matching
// over free text is the contract-compatible behavior; tags only extend it.
func (r *Recipe) MatchesAllergen(allergen string) bool {
	for _, term := range r.allergenTerms {
		if strings.Contains(term, allergen) {
			return true
		}
	}
	return false
}
