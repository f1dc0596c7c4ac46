// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	id             int64
	name           string
	mealType       recipe.MealType
	dietType       recipe.DietType
	ultraProcessed bool
	prepTimeMin    int
	ingredients    []string
	allergenTags   []string
	macros         recipe.MacroProfile
}

// NewRecipeBuilder creates a new recipe builder with plausible defaults
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(42)

	return &RecipeBuilder{
		id:          1,
		name:        faker.Dinner(),
		mealType:    recipe.MealTypeLunch,
		dietType:    recipe.DietTypeNonVegetarian,
		prepTimeMin: 20,
		ingredients: []string{faker.Vegetable(), faker.Fruit()},
		macros: recipe.MacroProfile{
			Calories: 500,
			ProteinG: 30,
			CarbsG:   40,
			FatG:     18,
		},
	}
}

// WithID sets the recipe id
func (rb *RecipeBuilder) WithID(id int64) *RecipeBuilder {
	rb.id = id
	return rb
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithMealType sets the meal-type affinity
func (rb *RecipeBuilder) WithMealType(mt recipe.MealType) *RecipeBuilder {
	rb.mealType = mt
	return rb
}

// WithDietType sets the dietary classification
func (rb *RecipeBuilder) WithDietType(dt recipe.DietType) *RecipeBuilder {
	rb.dietType = dt
	return rb
}

// WithUltraProcessed marks the recipe ultra-processed
func (rb *RecipeBuilder) WithUltraProcessed(v bool) *RecipeBuilder {
	rb.ultraProcessed = v
	return rb
}

// WithPrepTime sets the preparation time in minutes
func (rb *RecipeBuilder) WithPrepTime(minutes int) *RecipeBuilder {
	rb.prepTimeMin = minutes
	return rb
}

// WithIngredients sets the ingredient names
func (rb *RecipeBuilder) WithIngredients(names ...string) *RecipeBuilder {
	rb.ingredients = names
	return rb
}

// WithAllergenTags sets explicit allergen tags
func (rb *RecipeBuilder) WithAllergenTags(tags ...string) *RecipeBuilder {
	rb.allergenTags = tags
	return rb
}

// WithMacros sets the per-serving macro profile
func (rb *RecipeBuilder) WithMacros(macros recipe.MacroProfile) *RecipeBuilder {
	rb.macros = macros
	return rb
}

// WithCalories sets per-serving calories, keeping macros roughly consistent
func (rb *RecipeBuilder) WithCalories(calories float64) *RecipeBuilder {
	rb.macros.Calories = calories
	rb.macros.ProteinG = calories * 0.06
	rb.macros.CarbsG = calories * 0.10
	rb.macros.FatG = calories * 0.03
	return rb
}

// Build constructs the recipe, panicking on invalid test data
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	refs := make([]recipe.IngredientRef, len(rb.ingredients))
	for i := range rb.ingredients {
		refs[i] = recipe.IngredientRef{IngredientID: int64(i + 1), Grams: 100}
	}

	r, err := recipe.NewRecipe(
		rb.id,
		rb.name,
		rb.mealType,
		rb.dietType,
		rb.ultraProcessed,
		rb.prepTimeMin,
		refs,
		rb.ingredients,
		rb.allergenTags,
		rb.macros,
	)
	if err != nil {
		panic(fmt.Sprintf("invalid test recipe: %v", err))
	}
	return r
}

// StandardCorpus builds a deterministic corpus covering every meal type and
// diet class, sized so a multi-day plan can always be composed. Recipe ids
// are stable, which the selection tests rely on.
func StandardCorpus() []*recipe.Recipe {
	var out []*recipe.Recipe
	id := int64(1)

	type tpl struct {
		mealType recipe.MealType
		baseCal  float64
	}
	templates := []tpl{
		{recipe.MealTypeBreakfast, 350},
		{recipe.MealTypeLunch, 550},
		{recipe.MealTypeDinner, 650},
		{recipe.MealTypeSnack, 180},
	}
	diets := []recipe.DietType{
		recipe.DietTypeVegan,
		recipe.DietTypeVegetarian,
		recipe.DietTypeNonVegetarian,
	}

	for _, t := range templates {
		for _, d := range diets {
			for i := 0; i < 4; i++ {
				cal := t.baseCal + float64(i)*60
				out = append(out, NewRecipeBuilder().
					WithID(id).
					WithName(fmt.Sprintf("%s %s %d", d, t.mealType, i+1)).
					WithMealType(t.mealType).
					WithDietType(d).
					WithPrepTime(10+5*i).
					WithIngredients(
						fmt.Sprintf("base-%s-%d", t.mealType, i+1),
						"olive oil",
					).
					WithCalories(cal).
					Build())
				id++
			}
		}
	}
	return out
}
