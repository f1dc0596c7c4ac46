package corpus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	gormDB "gorm.io/gorm"

	"github.com/mealforge/v1/internal/domain/recipe"
	gormModels "github.com/mealforge/v1/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/errors"
)

// SQLiteLoader loads the dataset from a pre-ingested SQLite database
// instead of the CSV files. The snapshot it produces is identical in
// shape to the CSV loader's, so the rest of the system does not care
// which source fed the index.
type SQLiteLoader struct {
	db     *gormDB.DB
	index  *Index
	logger *zap.Logger

	mu     sync.Mutex
	status outbound.CorpusStatus
}

// NewSQLiteLoader creates a loader bound to an open database and target index.
func NewSQLiteLoader(db *gormDB.DB, index *Index, logger *zap.Logger) *SQLiteLoader {
	return &SQLiteLoader{
		db:     db,
		index:  index,
		logger: logger.Named("corpus-sqlite"),
	}
}

// Load reads both tables and atomically swaps the index snapshot.
func (l *SQLiteLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()

	var ingredientRows []gormModels.IngredientModel
	if err := l.db.WithContext(ctx).Order("id").Find(&ingredientRows).Error; err != nil {
		l.recordFailure(start, err)
		return errors.NewDatasetError("query ingredients", err)
	}

	ingredients := make(map[int64]recipe.Ingredient, len(ingredientRows))
	for _, row := range ingredientRows {
		ing := gormModels.IngredientToDomain(row)
		if err := ing.Validate(); err != nil {
			l.logger.Warn("skipping ingredient", zap.Int64("id", row.ID), zap.Error(err))
			continue
		}
		ingredients[ing.ID] = ing
	}

	var recipeRows []gormModels.RecipeModel
	if err := l.db.WithContext(ctx).Order("id").Find(&recipeRows).Error; err != nil {
		l.recordFailure(start, err)
		return errors.NewDatasetError("query recipes", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(recipeRows))
	for _, row := range recipeRows {
		r, err := gormModels.RecipeToDomain(row, ingredients)
		if err != nil {
			l.logger.Warn("skipping recipe", zap.Int64("id", row.ID), zap.Error(err))
			continue
		}
		recipes = append(recipes, r)
	}

	status := outbound.CorpusStatus{
		Loaded:         true,
		RecipeRows:     len(recipes),
		IngredientRows: len(ingredients),
		DataDir:        "sqlite",
		LoadTime:       time.Since(start).Seconds(),
		LastLoadedAt:   time.Now(),
	}
	l.index.swap(buildSnapshot(recipes, ingredients, status))
	l.status = status

	l.logger.Info("corpus loaded from sqlite",
		zap.Int("recipes", len(recipes)),
		zap.Int("ingredients", len(ingredients)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Status reports the most recent load outcome.
func (l *SQLiteLoader) Status() outbound.CorpusStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *SQLiteLoader) recordFailure(start time.Time, err error) {
	l.status = outbound.CorpusStatus{
		Loaded:   false,
		DataDir:  "sqlite",
		LoadTime: time.Since(start).Seconds(),
		Error:    err.Error(),
	}
	l.logger.Error("corpus load failed", zap.Error(err))
}
