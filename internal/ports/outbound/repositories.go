// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// RecipeFilter describes one corpus lookup. All constraints are applied in a
// single pass over the index.
type RecipeFilter struct {
	// MealType restricts candidates to a meal-type bucket; recipes with
	// MealTypeAny always qualify. Empty means no restriction.
	MealType recipe.MealType

	// DietType is the requested dietary constraint, applied via
	// DietType.Allows. Empty means no restriction.
	DietType recipe.DietType

	// ExcludeUltraProcessed drops recipes flagged ultra-processed.
	ExcludeUltraProcessed bool

	// Allergies are lowercased trimmed substrings matched against
	// ingredient names and allergen tags.
	Allergies []string

	// ExcludeIDs drops specific recipe identifiers, supplied by
	// replacement requests.
	ExcludeIDs map[int64]struct{}

	// MinCalories/MaxCalories bound the per-serving calorie window.
	// Zero values disable the bound.
	MinCalories float64
	MaxCalories float64
}

// RecipeRepository is the corpus index: read-only after load, restartable
// lookups, one pass per call.
type RecipeRepository interface {
	// Find returns every recipe matching the filter, in ascending id order
	// for deterministic downstream selection.
	Find(ctx context.Context, filter RecipeFilter) ([]*recipe.Recipe, error)

	// FindByID returns a single recipe or recipe.ErrRecipeNotFound.
	FindByID(ctx context.Context, id int64) (*recipe.Recipe, error)

	// Search performs free-text substring lookup over recipe names and
	// ingredient names.
	Search(ctx context.Context, query string, limit int) ([]*recipe.Recipe, error)

	// Count returns the number of indexed recipes.
	Count(ctx context.Context) (int, error)
}

// CorpusStatus describes the load state of the corpus index.
type CorpusStatus struct {
	Loaded         bool      `json:"loaded"`
	RecipeRows     int       `json:"recipes"`
	IngredientRows int       `json:"ingredients"`
	DataDir        string    `json:"data_dir"`
	LoadTime       float64   `json:"load_time_sec"`
	LastLoadedAt   time.Time `json:"last_loaded_at"`
	Error          string    `json:"error,omitempty"`
}

// CorpusLoader owns dataset loading and reload.
type CorpusLoader interface {
	// Load parses the dataset and atomically swaps the index.
	Load(ctx context.Context) error

	// Status reports the current load state.
	Status() CorpusStatus
}

// EngineMetrics receives business-level measurements from the planner.
// Implementations must be safe for concurrent use; a nil recorder disables
// recording.
type EngineMetrics interface {
	// PlanGenerated records a completed generation attempt.
	PlanGenerated(goal, dietType, status string, duration time.Duration)

	// MealReplaced records a completed replacement attempt.
	MealReplaced(slot, status string)

	// PlanCacheLookup records a plan cache hit or miss.
	PlanCacheLookup(hit bool)
}

// CacheRepository caches serialized plan responses. The engine is
// deterministic over a fixed corpus, so identical requests may be served
// from cache without changing observable behavior.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Flush drops all cached entries; called after a corpus reload.
	Flush(ctx context.Context) error
}
