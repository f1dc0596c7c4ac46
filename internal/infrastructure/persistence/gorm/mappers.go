package gorm

import (
	"encoding/json"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// IngredientToDomain converts an IngredientModel into its domain value
func IngredientToDomain(m IngredientModel) recipe.Ingredient {
	return recipe.Ingredient{
		ID:              m.ID,
		Name:            m.Name,
		FoodGroup:       m.FoodGroup,
		AllergenTags:    m.AllergenTags,
		KcalPer100G:     m.KcalPer100G,
		ProteinPer100G:  m.ProteinPer100G,
		CarbsPer100G:    m.CarbsPer100G,
		FatPer100G:      m.FatPer100G,
		SugarPer100G:    m.SugarPer100G,
		SodiumMGPer100G: m.SodiumMGPer100G,
		SatFatPer100G:   m.SatFatPer100G,
	}
}

// IngredientFromDomain converts a domain ingredient into its GORM model
func IngredientFromDomain(i recipe.Ingredient) IngredientModel {
	return IngredientModel{
		ID:              i.ID,
		Name:            i.Name,
		FoodGroup:       i.FoodGroup,
		AllergenTags:    StringSlice(i.AllergenTags),
		KcalPer100G:     i.KcalPer100G,
		ProteinPer100G:  i.ProteinPer100G,
		CarbsPer100G:    i.CarbsPer100G,
		FatPer100G:      i.FatPer100G,
		SugarPer100G:    i.SugarPer100G,
		SodiumMGPer100G: i.SodiumMGPer100G,
		SatFatPer100G:   i.SatFatPer100G,
	}
}

// storedIngredientRef mirrors the dataset's ingredient JSON shape.
type storedIngredientRef struct {
	ID    int64   `json:"id"`
	Grams float64 `json:"g"`
}

// RecipeToDomain converts a RecipeModel plus the ingredient lookup into a
// domain Recipe, summing macros from the per-100g columns.
func RecipeToDomain(m RecipeModel, ingredients map[int64]recipe.Ingredient) (*recipe.Recipe, error) {
	var refs []storedIngredientRef
	if len(m.Ingredients) > 0 {
		if err := json.Unmarshal(m.Ingredients, &refs); err != nil {
			return nil, err
		}
	}

	var macros recipe.MacroProfile
	ingRefs := make([]recipe.IngredientRef, 0, len(refs))
	names := make([]string, 0, len(refs))
	var tags []string
	for _, ref := range refs {
		ing, ok := ingredients[ref.ID]
		if !ok {
			continue
		}
		ingRefs = append(ingRefs, recipe.IngredientRef{IngredientID: ref.ID, Grams: ref.Grams})
		names = append(names, ing.Name)
		tags = append(tags, ing.AllergenTags...)
		macros = macros.Add(ing.MacrosFor(ref.Grams))
	}

	return recipe.NewRecipe(
		m.ID,
		m.Name,
		recipe.ParseMealType(m.MealType),
		recipe.ParseDietType(m.DietType),
		m.UltraProcessed,
		m.PrepTimeMin,
		ingRefs,
		names,
		tags,
		macros,
	)
}

// RecipeFromDomain converts a domain Recipe into its GORM model
func RecipeFromDomain(r *recipe.Recipe) (RecipeModel, error) {
	refs := make([]storedIngredientRef, 0, len(r.Ingredients()))
	for _, ref := range r.Ingredients() {
		refs = append(refs, storedIngredientRef{ID: ref.IngredientID, Grams: ref.Grams})
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return RecipeModel{}, err
	}

	return RecipeModel{
		ID:             r.ID(),
		Name:           r.Name(),
		MealType:       string(r.MealType()),
		DietType:       string(r.DietType()),
		UltraProcessed: r.UltraProcessed(),
		PrepTimeMin:    r.PrepTimeMin(),
		Ingredients:    JSONField(raw),
	}, nil
}
