package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mealforge/v1/internal/domain/recipe"
)

func TestSlotLabels(t *testing.T) {
	assert.Equal(t, []string{"breakfast"}, SlotLabels(1))
	assert.Equal(t, []string{"breakfast", "lunch"}, SlotLabels(2))
	assert.Equal(t, []string{"breakfast", "lunch", "dinner"}, SlotLabels(3))
	assert.Equal(t,
		[]string{"breakfast", "lunch", "dinner", "snack", "snack2", "snack3"},
		SlotLabels(6))

	// Out-of-range requests clamp instead of failing
	assert.Len(t, SlotLabels(0), 1)
	assert.Len(t, SlotLabels(99), MaxMealsPerDay)
}

func TestSlotMealType(t *testing.T) {
	assert.Equal(t, recipe.MealTypeBreakfast, SlotMealType("breakfast"))
	assert.Equal(t, recipe.MealTypeDinner, SlotMealType("dinner"))

	// Every snack-family label shares the snack bucket
	assert.Equal(t, recipe.MealTypeSnack, SlotMealType("snack"))
	assert.Equal(t, recipe.MealTypeSnack, SlotMealType("snack2"))
	assert.Equal(t, recipe.MealTypeSnack, SlotMealType("snack3"))
}

func TestDaySlotsEvenSplit(t *testing.T) {
	slots := DaySlots(1, 2000, 4)
	assert.Len(t, slots, 4)
	assert.Equal(t, 500.0, slots[0].TargetCalories)
	assert.Equal(t, 500.0, slots[3].TargetCalories)
}

func TestDaySlotsResidualGoesToLastSlot(t *testing.T) {
	// 2000/3 = 666 with residue 2
	slots := DaySlots(1, 2000, 3)
	assert.Equal(t, 666.0, slots[0].TargetCalories)
	assert.Equal(t, 666.0, slots[1].TargetCalories)
	assert.Equal(t, 668.0, slots[2].TargetCalories)
}

func TestDaySlotsTargetsSumToDailyTotal(t *testing.T) {
	for _, daily := range []int{800, 1799, 2000, 2341, 6000} {
		for meals := 1; meals <= MaxMealsPerDay; meals++ {
			t.Run(fmt.Sprintf("%dkcal_%dmeals", daily, meals), func(t *testing.T) {
				sum := 0.0
				for _, s := range DaySlots(1, daily, meals) {
					sum += s.TargetCalories
				}
				assert.Equal(t, float64(daily), sum)
			})
		}
	}
}

func TestDaySlotsInitialState(t *testing.T) {
	for i, s := range DaySlots(3, 1800, 3) {
		assert.Equal(t, 3, s.Day)
		assert.Equal(t, i, s.Index)
		assert.Equal(t, SlotStatePending, s.State)
	}
}

func TestSlotTarget(t *testing.T) {
	assert.Equal(t, 666.0, SlotTarget(2000, 3, "breakfast"))
	assert.Equal(t, 668.0, SlotTarget(2000, 3, "dinner"))

	// Unknown labels fall back to an even share
	assert.InDelta(t, 500.0, SlotTarget(2000, 4, "supper"), 1e-9)
}

func TestKnownSlot(t *testing.T) {
	assert.True(t, KnownSlot("snack3"))
	assert.False(t, KnownSlot("supper"))
}
