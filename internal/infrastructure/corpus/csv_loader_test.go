package corpus

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ingredientHeader = []string{
	"ingredient_id", "ingredient_name", "food_group", "allergen_tags",
	"kcal_per_100g", "protein_per_100g", "carbs_per_100g", "fat_per_100g",
	"sugar_per_100g", "sodium_mg_per_100g", "sat_fat_per_100g",
}

var recipeHeader = []string{
	"meal_id", "meal_name", "meal_type", "diet_type",
	"ultra_processed", "prep_time_min", "ingredients",
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
}

// writeDataset lays out both dataset files in dir.
func writeDataset(t *testing.T, dir string, ingredients, recipes [][]string) {
	t.Helper()
	writeCSV(t, filepath.Join(dir, ingredientsFile), append([][]string{ingredientHeader}, ingredients...))
	writeCSV(t, filepath.Join(dir, recipesFile), append([][]string{recipeHeader}, recipes...))
}

func TestCSVLoaderComputesMacrosFromIngredients(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir,
		[][]string{
			{"1", "rolled oats", "grains", "gluten", "380", "13", "68", "7", "1", "5", "1.2"},
			{"2", "whole milk", "dairy", "dairy", "60", "3.3", "5", "3.2", "5", "40", "1.9"},
		},
		[][]string{
			{"1", "overnight oats", "breakfast", "vegetarian", "0", "10", `[{"id":1,"g":100},{"id":2,"g":200}]`},
		},
	)

	idx := NewIndex()
	loader := NewCSVLoader(dir, idx, zap.NewNop())
	require.NoError(t, loader.Load(context.Background()))

	r, err := idx.FindByID(context.Background(), 1)
	require.NoError(t, err)

	m := r.Macros()
	assert.InDelta(t, 500.0, m.Calories, 1e-9, "380 + 2x60")
	assert.InDelta(t, 19.6, m.ProteinG, 1e-9)
	assert.InDelta(t, 78.0, m.CarbsG, 1e-9)
	assert.InDelta(t, 13.4, m.FatG, 1e-9)

	assert.Equal(t, []string{"rolled oats", "whole milk"}, r.IngredientNames())
	assert.True(t, r.MatchesAllergen("dairy"), "allergen tags carry over from ingredients")
	assert.True(t, r.MatchesAllergen("gluten"))
}

func TestCSVLoaderSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir,
		[][]string{
			{"1", "rice", "grains", "", "360", "7", "79", "0.6", "0", "1", "0.2"},
			{"ingredient_id", "ingredient_name", "food_group", "allergen_tags",
				"kcal_per_100g", "protein_per_100g", "carbs_per_100g", "fat_per_100g",
				"sugar_per_100g", "sodium_mg_per_100g", "sat_fat_per_100g"}, // duplicated header
			{"not-a-number", "ghost", "", "", "1", "1", "1", "1", "0", "0", "0"},
		},
		[][]string{
			{"1", "plain rice", "lunch", "vegan", "0", "15", `[{"id":1,"g":150}]`},
			{"meal_id", "meal_name", "meal_type", "diet_type", "ultra_processed", "prep_time_min", "ingredients"},
			{"2", "broken bowl", "lunch", "vegan", "0", "15", `not-json`},
			{"oops", "bad id", "lunch", "vegan", "0", "15", `[]`},
		},
	)

	idx := NewIndex()
	loader := NewCSVLoader(dir, idx, zap.NewNop())
	require.NoError(t, loader.Load(context.Background()))

	status := loader.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, 1, status.RecipeRows)
	assert.Equal(t, 1, status.IngredientRows)

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCSVLoaderUnknownIngredientGetsPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir,
		[][]string{
			{"1", "tofu", "protein", "soy", "76", "8", "1.9", "4.8", "0.6", "7", "0.7"},
		},
		[][]string{
			{"1", "tofu scramble", "breakfast", "vegan", "0", "12", `[{"id":1,"g":200},{"id":99,"g":50}]`},
		},
	)

	idx := NewIndex()
	loader := NewCSVLoader(dir, idx, zap.NewNop())
	require.NoError(t, loader.Load(context.Background()))

	r, err := idx.FindByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"tofu", "ingredient_99"}, r.IngredientNames())
	// Unknown references contribute nothing to macros
	assert.InDelta(t, 152.0, r.Macros().Calories, 1e-9)
}

func TestCSVLoaderMissingFileFails(t *testing.T) {
	idx := NewIndex()
	loader := NewCSVLoader(t.TempDir(), idx, zap.NewNop())

	err := loader.Load(context.Background())
	require.Error(t, err)

	status := loader.Status()
	assert.False(t, status.Loaded)
	assert.NotEmpty(t, status.Error)
}

func TestCSVLoaderMissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, ingredientsFile), [][]string{
		{"ingredient_id", "ingredient_name"},
		{"1", "rice"},
	})
	writeCSV(t, filepath.Join(dir, recipesFile), append([][]string{recipeHeader},
		[]string{"1", "plain rice", "lunch", "vegan", "0", "15", "[]"}))

	loader := NewCSVLoader(dir, NewIndex(), zap.NewNop())
	err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kcal_per_100g")
}

func TestCSVLoaderFailureKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir,
		[][]string{
			{"1", "rice", "grains", "", "360", "7", "79", "0.6", "0", "1", "0.2"},
		},
		[][]string{
			{"1", "plain rice", "lunch", "vegan", "0", "15", `[{"id":1,"g":150}]`},
		},
	)

	idx := NewIndex()
	loader := NewCSVLoader(dir, idx, zap.NewNop())
	require.NoError(t, loader.Load(context.Background()))

	// Corrupt the dataset and reload: the error is reported but the old
	// snapshot keeps serving.
	require.NoError(t, os.Remove(filepath.Join(dir, recipesFile)))
	require.Error(t, loader.Load(context.Background()))

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
