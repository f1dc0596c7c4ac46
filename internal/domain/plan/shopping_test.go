package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/v1/internal/domain/recipe"
)

func mealWithIngredients(t *testing.T, id int64, names ...string) ComposedMeal {
	t.Helper()
	r, err := recipe.NewRecipe(id, fmt.Sprintf("recipe %d", id),
		recipe.MealTypeLunch, recipe.DietTypeVegan, false, 10,
		nil, names, nil, recipe.MacroProfile{Calories: 400})
	require.NoError(t, err)
	return ComposedMeal{Recipe: r, PortionFactor: 1, Macros: r.Macros()}
}

func TestBuildShoppingListCountsAcrossDays(t *testing.T) {
	days := []DayPlan{
		{Day: 1, Meals: []ComposedMeal{
			mealWithIngredients(t, 1, "rice", "beans"),
			mealWithIngredients(t, 2, "rice", "tomato"),
		}},
		{Day: 2, Meals: []ComposedMeal{
			mealWithIngredients(t, 1, "rice", "beans"),
		}},
	}

	list := BuildShoppingList(days)
	assert.Equal(t, 3, list.TotalUnique)

	// Descending count, then ascending name
	assert.Equal(t, ShoppingItem{Ingredient: "rice", Count: 3}, list.Items[0])
	assert.Equal(t, ShoppingItem{Ingredient: "beans", Count: 2}, list.Items[1])
	assert.Equal(t, ShoppingItem{Ingredient: "tomato", Count: 1}, list.Items[2])
}

func TestBuildShoppingListTieBreaksByName(t *testing.T) {
	days := []DayPlan{
		{Meals: []ComposedMeal{mealWithIngredients(t, 1, "zucchini", "apple", "miso")}},
	}

	list := BuildShoppingList(days)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "apple", list.Items[0].Ingredient)
	assert.Equal(t, "miso", list.Items[1].Ingredient)
	assert.Equal(t, "zucchini", list.Items[2].Ingredient)
}

func TestBuildShoppingListTruncatesDisplayNotCount(t *testing.T) {
	names := make([]string, 0, maxShoppingItems+30)
	for i := 0; i < maxShoppingItems+30; i++ {
		names = append(names, fmt.Sprintf("ingredient-%03d", i))
	}
	days := []DayPlan{{Meals: []ComposedMeal{mealWithIngredients(t, 1, names...)}}}

	list := BuildShoppingList(days)
	assert.Equal(t, maxShoppingItems+30, list.TotalUnique)
	assert.Len(t, list.Items, maxShoppingItems)
}

func TestBuildShoppingListEmptyPlan(t *testing.T) {
	list := BuildShoppingList(nil)
	assert.Zero(t, list.TotalUnique)
	assert.Empty(t, list.Items)
}

func TestCheckTotals(t *testing.T) {
	m1 := mealWithIngredients(t, 1, "rice")
	m2 := mealWithIngredients(t, 2, "beans")

	day := DayPlan{Day: 1, Meals: []ComposedMeal{m1, m2}}
	day.Totals = SumMeals(day.Meals)

	p := Plan{Days: []DayPlan{day}}
	p.Totals = SumDays(p.Days)
	assert.True(t, p.CheckTotals())

	p.Totals.Calories += 1
	assert.False(t, p.CheckTotals())
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 1.2, Round1(1.24))
	assert.Equal(t, 1.3, Round1(1.25))
	assert.Equal(t, -2.5, Round1(-2.46))
	assert.Equal(t, 0.0, Round1(0.04))
}
