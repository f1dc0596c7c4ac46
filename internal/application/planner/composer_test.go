package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/v1/internal/domain/plan"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/errors"
)

// fakeRepo is an in-memory RecipeRepository over a fixed slice, kept in
// ascending id order like the real index.
type fakeRepo struct {
	recipes []*recipe.Recipe
}

func (f *fakeRepo) Find(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, error) {
	var out []*recipe.Recipe
	for _, r := range f.recipes {
		if filter.Accept(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	for _, r := range f.recipes {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, recipe.ErrRecipeNotFound
}

func (f *fakeRepo) Search(ctx context.Context, query string, limit int) ([]*recipe.Recipe, error) {
	return nil, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	return len(f.recipes), nil
}

func slotFor(label string, target float64) plan.MealSlot {
	return plan.MealSlot{Day: 1, Label: label, TargetCalories: target, State: plan.SlotStatePending}
}

func anyRecipe(t *testing.T, id int64, calories, protein float64) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(id, "any meal", recipe.MealTypeAny,
		recipe.DietTypeNonVegetarian, false, 15, nil, []string{"base"}, nil,
		recipe.MacroProfile{Calories: calories, ProteinG: protein})
	require.NoError(t, err)
	return r
}

func lunchRecipe(t *testing.T, id int64, calories, protein float64) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(id, "lunch", recipe.MealTypeLunch,
		recipe.DietTypeNonVegetarian, false, 15, nil, []string{"base"}, nil,
		recipe.MacroProfile{Calories: calories, ProteinG: protein})
	require.NoError(t, err)
	return r
}

func TestFillSlotPicksMinimumScore(t *testing.T) {
	repo := &fakeRepo{recipes: []*recipe.Recipe{
		lunchRecipe(t, 1, 600, 10),
		lunchRecipe(t, 2, 600, 45), // best: same calories, far more protein
		lunchRecipe(t, 3, 600, 20),
	}}
	c := &composer{repo: repo}

	meal, err := c.fillSlot(context.Background(), constraints{Goal: recipe.GoalMaintain},
		slotFor("lunch", 600), newVarietyState(false))
	require.NoError(t, err)
	assert.Equal(t, int64(2), meal.Recipe.ID())
}

func TestFillSlotTieBreaksToLowestID(t *testing.T) {
	// Identical recipes: identical scores; the first candidate in id order
	// must win because only a strictly lower score displaces it.
	repo := &fakeRepo{recipes: []*recipe.Recipe{
		lunchRecipe(t, 4, 600, 30),
		lunchRecipe(t, 9, 600, 30),
	}}
	c := &composer{repo: repo}

	meal, err := c.fillSlot(context.Background(), constraints{Goal: recipe.GoalMaintain},
		slotFor("lunch", 600), newVarietyState(false))
	require.NoError(t, err)
	assert.Equal(t, int64(4), meal.Recipe.ID())
}

func TestFillSlotWidensWindowWhenPrimaryEmpty(t *testing.T) {
	// 450 kcal is outside lunch's +-12% of 600 (528..672) but inside the
	// 70%..130% fallback (420..780).
	repo := &fakeRepo{recipes: []*recipe.Recipe{lunchRecipe(t, 1, 450, 25)}}
	c := &composer{repo: repo}

	meal, err := c.fillSlot(context.Background(), constraints{Goal: recipe.GoalMaintain},
		slotFor("lunch", 600), newVarietyState(false))
	require.NoError(t, err)
	assert.Equal(t, int64(1), meal.Recipe.ID())
}

func TestFillSlotExhaustedAfterFallback(t *testing.T) {
	// 100 kcal cannot reach 600 even in the widened window.
	repo := &fakeRepo{recipes: []*recipe.Recipe{lunchRecipe(t, 1, 100, 5)}}
	c := &composer{repo: repo}

	_, err := c.fillSlot(context.Background(), constraints{Goal: recipe.GoalMaintain},
		slotFor("lunch", 600), newVarietyState(false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeCorpusExhausted))
}

func TestSlotToleranceSnacksAreLooser(t *testing.T) {
	assert.Equal(t, snackTolerance, slotTolerance(slotFor("snack", 200)))
	assert.Equal(t, snackTolerance, slotTolerance(slotFor("snack2", 200)))
	assert.Equal(t, mealTolerance, slotTolerance(slotFor("dinner", 600)))
}

func TestComposeDaysVarietySpreadsSelections(t *testing.T) {
	// Two equally scored lunch recipes; with variety on, days must
	// alternate instead of repeating id 1.
	repo := &fakeRepo{recipes: []*recipe.Recipe{
		anyRecipe(t, 1, 1800, 30),
		anyRecipe(t, 2, 1800, 30),
	}}
	c := &composer{repo: repo}

	days, err := c.composeDays(context.Background(), constraints{Goal: recipe.GoalMaintain},
		1800, 1, 2, newVarietyState(true))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, int64(1), days[0].Meals[0].Recipe.ID())
	assert.Equal(t, int64(2), days[1].Meals[0].Recipe.ID())
}

func TestComposeDaysVarietyOffRepeatsBest(t *testing.T) {
	repo := &fakeRepo{recipes: []*recipe.Recipe{
		anyRecipe(t, 1, 1800, 30),
		anyRecipe(t, 2, 1800, 30),
	}}
	c := &composer{repo: repo}

	days, err := c.composeDays(context.Background(), constraints{Goal: recipe.GoalMaintain},
		1800, 1, 3, newVarietyState(false))
	require.NoError(t, err)
	for _, d := range days {
		assert.Equal(t, int64(1), d.Meals[0].Recipe.ID())
	}
}

func TestComposeDaysFailsWholePlanOnUnfillableSlot(t *testing.T) {
	// Breakfast pool exists, dinner pool does not.
	breakfast, err := recipe.NewRecipe(1, "oats", recipe.MealTypeBreakfast,
		recipe.DietTypeVegan, false, 5, nil, []string{"oats"}, nil,
		recipe.MacroProfile{Calories: 600, ProteinG: 15})
	require.NoError(t, err)

	c := &composer{repo: &fakeRepo{recipes: []*recipe.Recipe{breakfast}}}

	days, err := c.composeDays(context.Background(), constraints{Goal: recipe.GoalMaintain},
		1800, 3, 1, newVarietyState(false))
	assert.Nil(t, days, "partial plans are never returned")
	assert.True(t, errors.Is(err, errors.CodeCorpusExhausted))
}

func TestComposeDaysHonorsContextCancellation(t *testing.T) {
	repo := &fakeRepo{recipes: []*recipe.Recipe{anyRecipe(t, 1, 1800, 30)}}
	c := &composer{repo: repo}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.composeDays(ctx, constraints{Goal: recipe.GoalMaintain},
		1800, 1, 5, newVarietyState(false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeDaysTotalsAreSums(t *testing.T) {
	anyMeal, err := recipe.NewRecipe(1, "bowl", recipe.MealTypeAny,
		recipe.DietTypeVegan, false, 10, nil, []string{"rice", "beans"}, nil,
		recipe.MacroProfile{Calories: 600, ProteinG: 25, CarbsG: 80, FatG: 12})
	require.NoError(t, err)

	c := &composer{repo: &fakeRepo{recipes: []*recipe.Recipe{anyMeal}}}

	days, err := c.composeDays(context.Background(), constraints{Goal: recipe.GoalMaintain},
		1800, 3, 2, newVarietyState(false))
	require.NoError(t, err)

	p, err := aggregate(days)
	require.NoError(t, err)
	assert.True(t, p.CheckTotals())
	assert.Equal(t, 6, p.MealCount())
}
