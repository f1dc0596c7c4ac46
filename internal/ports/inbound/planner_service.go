// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
)

// PlannerService defines the use cases of the meal-plan engine.
// This is the primary port that HTTP handlers and other driving adapters use.
type PlannerService interface {
	// GeneratePlan composes a full multi-day plan, or fails as a whole.
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*PlanDTO, error)

	// ReplaceMeal re-runs selection for a single slot under extra exclusions.
	ReplaceMeal(ctx context.Context, cmd ReplaceMealCommand) (*MealDTO, error)

	// SearchRecipes performs a free-text lookup over names and ingredients.
	SearchRecipes(ctx context.Context, query SearchQuery) ([]RecipeSummaryDTO, error)
}

// GeneratePlanCommand carries the constraints of one plan request.
// The wire shape is load-bearing and preserved bit-for-bit.
type GeneratePlanCommand struct {
	Calories              int      `json:"calories" validate:"required,min=800,max=6000"`
	MealsPerDay           int      `json:"meals_per_day" validate:"required,min=1,max=6"`
	Days                  int      `json:"days" validate:"required,min=1,max=14"`
	DietType              string   `json:"diet_type" validate:"omitempty,oneof=vegan vegetarian non-vegetarian"`
	Goal                  string   `json:"goal" validate:"omitempty,oneof=lose_weight maintain gain_muscle"`
	Allergies             []string `json:"allergies"`
	ExcludeUltraProcessed bool     `json:"exclude_ultra_processed"`
	Variety               bool     `json:"variety"`
}

// ReplaceMealCommand carries the constraints of one replace-meal request.
type ReplaceMealCommand struct {
	Calories              int      `json:"calories" validate:"required,min=800,max=6000"`
	MealsPerDay           int      `json:"meals_per_day" validate:"required,min=1,max=6"`
	DietType              string   `json:"diet_type" validate:"omitempty,oneof=vegan vegetarian non-vegetarian"`
	Goal                  string   `json:"goal" validate:"omitempty,oneof=lose_weight maintain gain_muscle"`
	Allergies             []string `json:"allergies"`
	ExcludeUltraProcessed bool     `json:"exclude_ultra_processed"`
	Variety               bool     `json:"variety"`

	Day                int      `json:"day" validate:"required,min=1,max=14"`
	Slot               string   `json:"slot" validate:"omitempty,oneof=breakfast lunch dinner snack snack2 snack3"`
	TargetMealCalories *float64 `json:"target_meal_calories"`
	ExcludeRecipeIDs   []int64  `json:"exclude_recipe_ids"`
}

// SearchQuery carries a recipe search request.
type SearchQuery struct {
	Query string
	Limit int
}

// ExplainDTO is the per-meal selection breakdown exposed with every meal.
type ExplainDTO struct {
	CalorieDelta   float64 `json:"calorie_delta"`
	ProteinG       float64 `json:"protein_g"`
	SugarG         float64 `json:"sugar_g"`
	SodiumMG       float64 `json:"sodium_mg"`
	SatFatG        float64 `json:"sat_fat_g"`
	VarietyPenalty float64 `json:"variety_penalty"`
}

// MealDTO is the data transfer object for one composed meal.
type MealDTO struct {
	Slot           string     `json:"slot"`
	MealType       string     `json:"meal_type"`
	RecipeID       int64      `json:"recipe_id"`
	Name           string     `json:"name"`
	Minutes        int        `json:"minutes"`
	Portion        float64    `json:"portion"`
	TargetCalories float64    `json:"target_calories"`
	Calories       float64    `json:"calories"`
	ProteinG       float64    `json:"protein_g"`
	CarbsG         float64    `json:"carbs_g"`
	FatG           float64    `json:"fat_g"`
	Ingredients    []string   `json:"ingredients"`
	Explain        ExplainDTO `json:"explain"`
}

// TotalsDTO carries day- or plan-level macro totals.
type TotalsDTO struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// DayPlanDTO is one day of the returned plan.
type DayPlanDTO struct {
	Day    int       `json:"day"`
	Meals  []MealDTO `json:"meals"`
	Totals TotalsDTO `json:"totals"`
}

// ShoppingItemDTO is one consolidated shopping list entry.
type ShoppingItemDTO struct {
	Ingredient string `json:"ingredient"`
	Count      int    `json:"count"`
}

// ShoppingListDTO is the plan-wide shopping list.
type ShoppingListDTO struct {
	TotalUnique int               `json:"total_unique"`
	Items       []ShoppingItemDTO `json:"items"`
}

// PlanMetaDTO echoes the effective request constraints.
type PlanMetaDTO struct {
	Days                  int      `json:"days"`
	MealsPerDay           int      `json:"meals_per_day"`
	DietType              string   `json:"diet_type"`
	Goal                  string   `json:"goal"`
	ExcludeUltraProcessed bool     `json:"exclude_ultra_processed"`
	Variety               bool     `json:"variety"`
	Allergies             []string `json:"allergies"`
}

// PlanDTO is the data transfer object for a generated plan.
type PlanDTO struct {
	Meta          PlanMetaDTO     `json:"meta"`
	Days          []DayPlanDTO    `json:"days"`
	OverallTotals TotalsDTO       `json:"overall_totals"`
	ShoppingList  ShoppingListDTO `json:"shopping_list"`
}

// RecipeSummaryDTO is one recipe search hit.
type RecipeSummaryDTO struct {
	RecipeID    int64    `json:"recipe_id"`
	Name        string   `json:"name"`
	MealType    string   `json:"meal_type"`
	DietType    string   `json:"diet_type"`
	Minutes     int      `json:"minutes"`
	Calories    float64  `json:"calories"`
	ProteinG    float64  `json:"protein_g"`
	CarbsG      float64  `json:"carbs_g"`
	FatG        float64  `json:"fat_g"`
	Ingredients []string `json:"ingredients"`
}
