package corpus

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/errors"
)

// Dataset file names inside the corpus data directory.
const (
	ingredientsFile = "ingredients_db.csv"
	recipesFile     = "meals_recipes.csv"
)

// CSVLoader loads the two-file CSV dataset into an Index.
type CSVLoader struct {
	dataDir string
	index   *Index
	logger  *zap.Logger

	mu     sync.Mutex
	status outbound.CorpusStatus
}

// NewCSVLoader creates a loader bound to a data directory and target index.
func NewCSVLoader(dataDir string, index *Index, logger *zap.Logger) *CSVLoader {
	return &CSVLoader{
		dataDir: dataDir,
		index:   index,
		logger:  logger.Named("corpus"),
		status:  outbound.CorpusStatus{DataDir: dataDir},
	}
}

// Load parses both dataset files, computes recipe macros from ingredient
// per-100g values, and atomically swaps the index snapshot. A failed load
// leaves the previous snapshot serving.
func (l *CSVLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	loadID := uuid.NewString()

	ingredients, err := l.loadIngredients(ctx)
	if err != nil {
		l.recordFailure(start, err)
		return errors.NewDatasetError("load ingredients", err)
	}

	recipes, err := l.loadRecipes(ctx, ingredients)
	if err != nil {
		l.recordFailure(start, err)
		return errors.NewDatasetError("load recipes", err)
	}

	status := outbound.CorpusStatus{
		Loaded:         true,
		RecipeRows:     len(recipes),
		IngredientRows: len(ingredients),
		DataDir:        l.dataDir,
		LoadTime:       time.Since(start).Seconds(),
		LastLoadedAt:   time.Now(),
	}
	l.index.swap(buildSnapshot(recipes, ingredients, status))
	l.status = status

	l.logger.Info("corpus loaded",
		zap.String("load_id", loadID),
		zap.Int("recipes", len(recipes)),
		zap.Int("ingredients", len(ingredients)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Status reports the most recent load outcome.
func (l *CSVLoader) Status() outbound.CorpusStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *CSVLoader) recordFailure(start time.Time, err error) {
	l.status = outbound.CorpusStatus{
		Loaded:   false,
		DataDir:  l.dataDir,
		LoadTime: time.Since(start).Seconds(),
		Error:    err.Error(),
	}
	l.logger.Error("corpus load failed", zap.Error(err))
}

func (l *CSVLoader) loadIngredients(ctx context.Context) (map[int64]recipe.Ingredient, error) {
	rows, header, err := readCSV(filepath.Join(l.dataDir, ingredientsFile))
	if err != nil {
		return nil, err
	}

	col := columnMap(header)
	required := []string{"ingredient_id", "ingredient_name", "kcal_per_100g", "protein_per_100g", "carbs_per_100g", "fat_per_100g"}
	for _, c := range required {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", ingredientsFile, c)
		}
	}

	out := make(map[int64]recipe.Ingredient, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := strconv.ParseInt(field(row, col, "ingredient_id"), 10, 64)
		if err != nil {
			// Duplicated header rows sneak into hand-edited datasets
			if strings.EqualFold(field(row, col, "ingredient_id"), "ingredient_id") {
				continue
			}
			l.logger.Warn("skipping ingredient row", zap.Int("row", i+2), zap.Error(err))
			continue
		}

		ing := recipe.Ingredient{
			ID:              id,
			Name:            strings.TrimSpace(field(row, col, "ingredient_name")),
			FoodGroup:       strings.TrimSpace(field(row, col, "food_group")),
			AllergenTags:    splitTags(field(row, col, "allergen_tags")),
			KcalPer100G:     parseFloat(field(row, col, "kcal_per_100g")),
			ProteinPer100G:  parseFloat(field(row, col, "protein_per_100g")),
			CarbsPer100G:    parseFloat(field(row, col, "carbs_per_100g")),
			FatPer100G:      parseFloat(field(row, col, "fat_per_100g")),
			SugarPer100G:    parseFloat(field(row, col, "sugar_per_100g")),
			SodiumMGPer100G: parseFloat(field(row, col, "sodium_mg_per_100g")),
			SatFatPer100G:   parseFloat(field(row, col, "sat_fat_per_100g")),
		}
		if err := ing.Validate(); err != nil {
			l.logger.Warn("skipping ingredient row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		out[id] = ing
	}
	return out, nil
}

// ingredientRef is the per-recipe ingredient JSON shape:
// [{"id": 1, "g": 200}, ...]
type ingredientRef struct {
	ID    int64   `json:"id"`
	Grams float64 `json:"g"`
}

func (l *CSVLoader) loadRecipes(ctx context.Context, ingredients map[int64]recipe.Ingredient) ([]*recipe.Recipe, error) {
	rows, header, err := readCSV(filepath.Join(l.dataDir, recipesFile))
	if err != nil {
		return nil, err
	}

	col := columnMap(header)
	required := []string{"meal_id", "meal_name", "meal_type", "diet_type", "ingredients"}
	for _, c := range required {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", recipesFile, c)
		}
	}

	out := make([]*recipe.Recipe, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rawID := field(row, col, "meal_id")
		if strings.EqualFold(rawID, "meal_id") {
			continue
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			l.logger.Warn("skipping recipe row", zap.Int("row", i+2), zap.Error(err))
			continue
		}

		var refs []ingredientRef
		rawIngredients := strings.TrimSpace(field(row, col, "ingredients"))
		if rawIngredients != "" {
			if err := json.Unmarshal([]byte(rawIngredients), &refs); err != nil {
				l.logger.Warn("skipping recipe row: bad ingredient list",
					zap.Int("row", i+2), zap.Int64("meal_id", id), zap.Error(err))
				continue
			}
		}

		var macros recipe.MacroProfile
		ingRefs := make([]recipe.IngredientRef, 0, len(refs))
		names := make([]string, 0, len(refs))
		var tags []string
		for _, ref := range refs {
			ing, ok := ingredients[ref.ID]
			if !ok {
				names = append(names, fmt.Sprintf("ingredient_%d", ref.ID))
				continue
			}
			ingRefs = append(ingRefs, recipe.IngredientRef{IngredientID: ref.ID, Grams: ref.Grams})
			names = append(names, ing.Name)
			tags = append(tags, ing.AllergenTags...)
			macros = macros.Add(ing.MacrosFor(ref.Grams))
		}

		r, err := recipe.NewRecipe(
			id,
			field(row, col, "meal_name"),
			recipe.ParseMealType(field(row, col, "meal_type")),
			recipe.ParseDietType(field(row, col, "diet_type")),
			parseBool(field(row, col, "ultra_processed")),
			int(parseFloat(field(row, col, "prep_time_min"))),
			ingRefs,
			names,
			tags,
			macros,
		)
		if err != nil {
			l.logger.Warn("skipping recipe row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// readCSV reads a whole CSV file returning data rows and the header.
func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: read header: %w", filepath.Base(path), err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: read row: %w", filepath.Base(path), err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// columnMap indexes header names, lowercased and trimmed.
func columnMap(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

// field returns a row value by column name, empty when absent.
func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// splitTags parses a semicolon- or pipe-separated tag column.
func splitTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	sep := ";"
	if strings.Contains(s, "|") {
		sep = "|"
	}
	parts := strings.Split(s, sep)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
