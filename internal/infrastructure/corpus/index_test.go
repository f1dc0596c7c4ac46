package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
)

func indexedRecipe(t *testing.T, id int64, name string, mt recipe.MealType, calories, protein float64) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(id, name, mt, recipe.DietTypeVegan, false, 10,
		nil, []string{"water"}, nil,
		recipe.MacroProfile{Calories: calories, ProteinG: protein})
	require.NoError(t, err)
	return r
}

func TestIndexFindReturnsAscendingIDs(t *testing.T) {
	idx := NewStaticIndex([]*recipe.Recipe{
		indexedRecipe(t, 3, "c", recipe.MealTypeLunch, 500, 20),
		indexedRecipe(t, 1, "a", recipe.MealTypeLunch, 500, 20),
		indexedRecipe(t, 2, "b", recipe.MealTypeLunch, 500, 20),
	}, nil)

	out, err := idx.Find(context.Background(), outbound.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, int64(1), out[0].ID())
	assert.Equal(t, int64(2), out[1].ID())
	assert.Equal(t, int64(3), out[2].ID())
}

func TestIndexFindByMealTypeIncludesAnyRecipes(t *testing.T) {
	idx := NewStaticIndex([]*recipe.Recipe{
		indexedRecipe(t, 1, "omelette", recipe.MealTypeBreakfast, 400, 25),
		indexedRecipe(t, 2, "curry", recipe.MealTypeLunch, 600, 22),
		indexedRecipe(t, 3, "smoothie", recipe.MealTypeAny, 300, 15),
	}, nil)

	out, err := idx.Find(context.Background(), outbound.RecipeFilter{MealType: recipe.MealTypeBreakfast})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID())
	assert.Equal(t, int64(3), out[1].ID())
}

func TestIndexFindByIDNotFound(t *testing.T) {
	idx := NewStaticIndex(nil, nil)
	_, err := idx.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestIndexSearchOrdersByProteinThenCalories(t *testing.T) {
	idx := NewStaticIndex([]*recipe.Recipe{
		indexedRecipe(t, 1, "bean stew", recipe.MealTypeDinner, 550, 18),
		indexedRecipe(t, 2, "bean salad", recipe.MealTypeLunch, 350, 24),
		indexedRecipe(t, 3, "bean soup", recipe.MealTypeLunch, 300, 24),
		indexedRecipe(t, 4, "rice bowl", recipe.MealTypeLunch, 500, 30),
	}, nil)

	hits, err := idx.Search(context.Background(), "BEAN", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, int64(3), hits[0].ID(), "highest protein, ties broken by lower calories")
	assert.Equal(t, int64(2), hits[1].ID())
	assert.Equal(t, int64(1), hits[2].ID())
}

func TestIndexSearchMatchesIngredientNames(t *testing.T) {
	r, err := recipe.NewRecipe(1, "garden bowl", recipe.MealTypeLunch, recipe.DietTypeVegan,
		false, 10, nil, []string{"chickpeas", "spinach"}, nil,
		recipe.MacroProfile{Calories: 450, ProteinG: 20})
	require.NoError(t, err)

	idx := NewStaticIndex([]*recipe.Recipe{r}, nil)

	hits, err := idx.Search(context.Background(), "chickpea", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndexSearchLimit(t *testing.T) {
	var recipes []*recipe.Recipe
	for i := int64(1); i <= 5; i++ {
		recipes = append(recipes, indexedRecipe(t, i, "lentil dish", recipe.MealTypeLunch, 400, float64(i)))
	}
	idx := NewStaticIndex(recipes, nil)

	hits, err := idx.Search(context.Background(), "lentil", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndexSearchBlankQuery(t *testing.T) {
	idx := NewStaticIndex([]*recipe.Recipe{
		indexedRecipe(t, 1, "anything", recipe.MealTypeLunch, 400, 10),
	}, nil)

	hits, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexEmptyUntilFirstLoad(t *testing.T) {
	idx := NewIndex()

	status := idx.Status()
	assert.False(t, status.Loaded)

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIndexFindHonorsContextCancellation(t *testing.T) {
	idx := NewStaticIndex([]*recipe.Recipe{
		indexedRecipe(t, 1, "anything", recipe.MealTypeLunch, 400, 10),
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Find(ctx, outbound.RecipeFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
