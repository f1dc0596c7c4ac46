package plan

import (
	"strings"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// slotLabels is the canonical slot order; a day with M meals uses the
// first M labels.
var slotLabels = [...]string{"breakfast", "lunch", "dinner", "snack", "snack2", "snack3"}

// MaxMealsPerDay bounds the meals-per-day request field
const MaxMealsPerDay = len(slotLabels)

// SlotLabels returns the ordered slot labels for a day of mealsPerDay meals.
func SlotLabels(mealsPerDay int) []string {
	if mealsPerDay < 1 {
		mealsPerDay = 1
	}
	if mealsPerDay > MaxMealsPerDay {
		mealsPerDay = MaxMealsPerDay
	}
	return slotLabels[:mealsPerDay]
}

// KnownSlot reports whether the label is one of the canonical slot labels.
func KnownSlot(label string) bool {
	for _, l := range slotLabels {
		if l == label {
			return true
		}
	}
	return false
}

// SlotMealType maps a slot label to the corpus meal-type bucket.
func SlotMealType(label string) recipe.MealType {
	if strings.HasPrefix(label, "snack") {
		return recipe.MealTypeSnack
	}
	return recipe.MealType(label)
}

// DaySlots derives the meal slots for one day. The daily calorie total is
// split evenly; integer-division residue is absorbed by the last slot so a
// day's slot targets always sum exactly to the daily total.
func DaySlots(day, dailyCalories, mealsPerDay int) []MealSlot {
	labels := SlotLabels(mealsPerDay)
	n := len(labels)
	base := dailyCalories / n

	slots := make([]MealSlot, n)
	for i, label := range labels {
		target := base
		if i == n-1 {
			target = dailyCalories - base*(n-1)
		}
		slots[i] = MealSlot{
			Day:            day,
			Index:          i,
			Label:          label,
			TargetCalories: float64(target),
			State:          SlotStatePending,
		}
	}
	return slots
}

// SlotTarget returns the even-split target for a named slot, used by
// replacement when the caller does not supply an explicit target.
func SlotTarget(dailyCalories, mealsPerDay int, label string) float64 {
	for _, s := range DaySlots(1, dailyCalories, mealsPerDay) {
		if s.Label == label {
			return s.TargetCalories
		}
	}
	// Unknown labels fall back to an even share
	return float64(dailyCalories) / float64(mealsPerDay)
}
