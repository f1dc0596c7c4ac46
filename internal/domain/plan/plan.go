// Package plan contains the domain model for composed meal plans.
// A Plan is built during one generation session, owned by the caller
// afterwards; totals are always recomputed by summation, never patched.
package plan

import (
	"math"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// SlotState tracks the composition state of a meal slot
type SlotState string

const (
	SlotStatePending SlotState = "pending"
	SlotStateFilled  SlotState = "filled"
)

// MealSlot is a (day, index, label) triple with its target-calorie share.
// Derived per request, never persisted independently.
type MealSlot struct {
	Day            int
	Index          int
	Label          string
	TargetCalories float64
	State          SlotState
}

// MealType maps the slot label onto a corpus meal-type bucket.
// Every snack-family label shares the snack bucket.
func (s MealSlot) MealType() recipe.MealType {
	return SlotMealType(s.Label)
}

// Explanation is the per-meal breakdown of why a recipe was selected,
// populated from the same score computation used for selection.
type Explanation struct {
	CalorieDelta   float64
	ProteinG       float64
	SugarG         float64
	SodiumMG       float64
	SatFatG        float64
	VarietyPenalty float64
}

// ComposedMeal binds a recipe to a slot with portion-scaled macros.
type ComposedMeal struct {
	Recipe        *recipe.Recipe
	Slot          MealSlot
	PortionFactor float64
	Macros        recipe.MacroProfile
	Explain       Explanation
}

// DayPlan is the ordered sequence of composed meals for one day.
type DayPlan struct {
	Day    int
	Meals  []ComposedMeal
	Totals recipe.MacroProfile
}

// Plan is the ordered sequence of day plans with plan-level aggregates.
type Plan struct {
	Days         []DayPlan
	Totals       recipe.MacroProfile
	ShoppingList ShoppingList
}

// MealCount returns the total number of composed meals in the plan
func (p *Plan) MealCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Meals)
	}
	return n
}

// Round1 rounds to one decimal place; applied only at the exposure boundary.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SumMeals recomputes a day's totals as the exact sum of its meal macros.
func SumMeals(meals []ComposedMeal) recipe.MacroProfile {
	var total recipe.MacroProfile
	for _, m := range meals {
		total = total.Add(m.Macros)
	}
	return total
}

// SumDays recomputes plan totals as the exact sum of day totals.
func SumDays(days []DayPlan) recipe.MacroProfile {
	var total recipe.MacroProfile
	for _, d := range days {
		total = total.Add(d.Totals)
	}
	return total
}

// totalsTolerance bounds the acceptable drift between stored and recomputed
// aggregate fields.
const totalsTolerance = 0.05

// CheckTotals verifies the summation invariant on a fully aggregated plan.
// A violation is an internal computation error, never a user condition.
func (p *Plan) CheckTotals() bool {
	for _, d := range p.Days {
		if !profilesClose(d.Totals, SumMeals(d.Meals)) {
			return false
		}
	}
	return profilesClose(p.Totals, SumDays(p.Days))
}

func profilesClose(a, b recipe.MacroProfile) bool {
	return math.Abs(a.Calories-b.Calories) <= totalsTolerance &&
		math.Abs(a.ProteinG-b.ProteinG) <= totalsTolerance &&
		math.Abs(a.CarbsG-b.CarbsG) <= totalsTolerance &&
		math.Abs(a.FatG-b.FatG) <= totalsTolerance &&
		math.Abs(a.SugarG-b.SugarG) <= totalsTolerance &&
		math.Abs(a.SodiumMG-b.SodiumMG) <= totalsTolerance &&
		math.Abs(a.SatFatG-b.SatFatG) <= totalsTolerance
}
