package outbound

import "github.com/mealforge/v1/internal/domain/recipe"

// Accept applies the constraint rules to one candidate, first rejection
// wins. Rule order is part of the engine contract:
//  1. diet type mismatch
//  2. ultra-processed exclusion
//  3. allergy substring match
//  4. identifier exclusion set
// followed by the lookup-level meal-type and calorie-window constraints.
func (f RecipeFilter) Accept(r *recipe.Recipe) bool {
	if f.DietType != "" && !f.DietType.Allows(r.DietType()) {
		return false
	}
	if f.ExcludeUltraProcessed && r.UltraProcessed() {
		return false
	}
	for _, allergen := range f.Allergies {
		if r.MatchesAllergen(allergen) {
			return false
		}
	}
	if len(f.ExcludeIDs) > 0 {
		if _, ok := f.ExcludeIDs[r.ID()]; ok {
			return false
		}
	}
	if f.MealType != "" && !r.FitsSlot(f.MealType) {
		return false
	}
	cal := r.Macros().Calories
	if f.MinCalories > 0 && cal < f.MinCalories {
		return false
	}
	if f.MaxCalories > 0 && cal > f.MaxCalories {
		return false
	}
	return true
}
