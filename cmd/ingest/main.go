// Package main ingests the CSV dataset into a SQLite corpus database,
// the backend used by corpus source "sqlite".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	gormLogger "gorm.io/gorm/logger"

	"github.com/mealforge/v1/internal/infrastructure/corpus"
	gormModels "github.com/mealforge/v1/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v1/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/v1/pkg/logger"
)

func main() {
	dataDir := flag.String("data", "./data", "directory holding ingredients_db.csv and meals_recipes.csv")
	dbPath := flag.String("db", "./corpus.db", "target SQLite database path")
	flag.Parse()

	if err := run(*dataDir, *dbPath); err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
}

func run(dataDir, dbPath string) error {
	zlog, err := logger.New(logger.Config{Level: "info", Format: "console"})
	if err != nil {
		return err
	}
	defer zlog.Sync() //nolint:errcheck

	idx := corpus.NewIndex()
	loader := corpus.NewCSVLoader(dataDir, idx, zlog)
	if err := loader.Load(context.Background()); err != nil {
		return err
	}

	// Start from a clean file so removed rows do not linger.
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sqlite.SetupDatabase(dbPath, gormLogger.Silent)
	if err != nil {
		return err
	}

	ingredients := idx.Ingredients()
	ingredientRows := make([]gormModels.IngredientModel, 0, len(ingredients))
	for _, ing := range ingredients {
		ingredientRows = append(ingredientRows, gormModels.IngredientFromDomain(ing))
	}
	sort.Slice(ingredientRows, func(i, j int) bool { return ingredientRows[i].ID < ingredientRows[j].ID })
	if len(ingredientRows) > 0 {
		if err := db.CreateInBatches(ingredientRows, 200).Error; err != nil {
			return fmt.Errorf("insert ingredients: %w", err)
		}
	}

	recipes := idx.Recipes()
	recipeRows := make([]gormModels.RecipeModel, 0, len(recipes))
	for _, r := range recipes {
		row, err := gormModels.RecipeFromDomain(r)
		if err != nil {
			return fmt.Errorf("convert recipe %d: %w", r.ID(), err)
		}
		recipeRows = append(recipeRows, row)
	}
	if len(recipeRows) > 0 {
		if err := db.CreateInBatches(recipeRows, 200).Error; err != nil {
			return fmt.Errorf("insert recipes: %w", err)
		}
	}

	fmt.Printf("ingested %d ingredients, %d recipes into %s\n", len(ingredientRows), len(recipeRows), dbPath)
	return nil
}
