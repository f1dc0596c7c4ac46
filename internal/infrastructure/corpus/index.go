// Package corpus provides the in-memory recipe index and its dataset
// loaders. The index is built once, shared read-only across requests, and
// replaced by atomic pointer swap on reload.
package corpus

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
)

// snapshot is one immutable build of the index. Lookups never observe a
// partially built snapshot.
type snapshot struct {
	// recipes in ascending id order; the order carries through Find so
	// downstream selection is deterministic.
	recipes []*recipe.Recipe

	// byType buckets recipes per meal type, each bucket id-ascending and
	// including MealTypeAny recipes.
	byType map[recipe.MealType][]*recipe.Recipe

	byID        map[int64]*recipe.Recipe
	ingredients map[int64]recipe.Ingredient
	status      outbound.CorpusStatus
}

// Index implements outbound.RecipeRepository over the current snapshot.
type Index struct {
	current atomic.Pointer[snapshot]
}

// NewIndex creates an empty index; lookups fail until the first Swap.
func NewIndex() *Index {
	idx := &Index{}
	idx.current.Store(&snapshot{
		byType:      make(map[recipe.MealType][]*recipe.Recipe),
		byID:        make(map[int64]*recipe.Recipe),
		ingredients: make(map[int64]recipe.Ingredient),
	})
	return idx
}

// NewStaticIndex builds an index over a fixed recipe set. Used by tests and
// tooling that already hold parsed recipes.
func NewStaticIndex(recipes []*recipe.Recipe, ingredients map[int64]recipe.Ingredient) *Index {
	idx := NewIndex()
	idx.swap(buildSnapshot(recipes, ingredients, outbound.CorpusStatus{
		Loaded:         true,
		RecipeRows:     len(recipes),
		IngredientRows: len(ingredients),
	}))
	return idx
}

// buildSnapshot indexes a loaded recipe set.
func buildSnapshot(recipes []*recipe.Recipe, ingredients map[int64]recipe.Ingredient, status outbound.CorpusStatus) *snapshot {
	sorted := make([]*recipe.Recipe, len(recipes))
	copy(sorted, recipes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	byType := make(map[recipe.MealType][]*recipe.Recipe)
	byID := make(map[int64]*recipe.Recipe, len(sorted))
	for _, r := range sorted {
		byID[r.ID()] = r
		if r.MealType() == recipe.MealTypeAny {
			for _, mt := range []recipe.MealType{
				recipe.MealTypeBreakfast, recipe.MealTypeLunch,
				recipe.MealTypeDinner, recipe.MealTypeSnack,
			} {
				byType[mt] = append(byType[mt], r)
			}
			continue
		}
		byType[r.MealType()] = append(byType[r.MealType()], r)
	}

	return &snapshot{
		recipes:     sorted,
		byType:      byType,
		byID:        byID,
		ingredients: ingredients,
		status:      status,
	}
}

// swap atomically replaces the current snapshot.
func (idx *Index) swap(s *snapshot) {
	idx.current.Store(s)
}

// Find returns every recipe matching the filter in ascending id order,
// scanning the relevant bucket exactly once.
func (idx *Index) Find(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := idx.current.Load()
	pool := snap.recipes
	if filter.MealType != "" {
		pool = snap.byType[filter.MealType]
	}

	var out []*recipe.Recipe
	for _, r := range pool {
		if filter.Accept(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindByID returns a single recipe or recipe.ErrRecipeNotFound.
func (idx *Index) FindByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, ok := idx.current.Load().byID[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return r, nil
}

// Search matches the lowercased query as a substring of recipe names or
// ingredient names, ordered by protein descending then calories ascending.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]*recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit < 1 {
		return nil, nil
	}

	var hits []*recipe.Recipe
	for _, r := range idx.current.Load().recipes {
		if strings.Contains(strings.ToLower(r.Name()), q) || r.MatchesAllergen(q) {
			hits = append(hits, r)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		mi, mj := hits[i].Macros(), hits[j].Macros()
		if mi.ProteinG != mj.ProteinG {
			return mi.ProteinG > mj.ProteinG
		}
		return mi.Calories < mj.Calories
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of indexed recipes.
func (idx *Index) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(idx.current.Load().recipes), nil
}

// Ingredient returns an indexed ingredient by id.
func (idx *Index) Ingredient(id int64) (recipe.Ingredient, bool) {
	ing, ok := idx.current.Load().ingredients[id]
	return ing, ok
}

// Recipes returns every indexed recipe in ascending id order. The slice is
// shared with the snapshot; callers must not mutate it.
func (idx *Index) Recipes() []*recipe.Recipe {
	return idx.current.Load().recipes
}

// Ingredients returns the ingredient table of the current snapshot.
func (idx *Index) Ingredients() map[int64]recipe.Ingredient {
	return idx.current.Load().ingredients
}

// Status reports the load state behind the current snapshot.
func (idx *Index) Status() outbound.CorpusStatus {
	return idx.current.Load().status
}
