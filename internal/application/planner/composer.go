package planner

import (
	"context"
	"fmt"

	"github.com/mealforge/v1/internal/domain/plan"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/errors"
)

// Candidate calorie windows around the slot target: main meals are held
// tight, snacks tolerate more spread. When the primary window yields no
// candidate the pool is widened once before the slot is declared
// unfillable.
const (
	mealTolerance     = 0.12
	snackTolerance    = 0.28
	fallbackLowRatio  = 0.70
	fallbackHighRatio = 1.30
)

// constraints are the request-level filter inputs shared by every slot of
// one generation session.
type constraints struct {
	DietType              recipe.DietType
	Goal                  recipe.Goal
	Allergies             []string
	ExcludeUltraProcessed bool
	ExcludeIDs            map[int64]struct{}
}

// describe renders the constraint set for error messages.
func (c constraints) describe() string {
	return fmt.Sprintf("diet=%s goal=%s allergies=%v exclude_ultra_processed=%t excluded_ids=%d",
		c.DietType, c.Goal, c.Allergies, c.ExcludeUltraProcessed, len(c.ExcludeIDs))
}

// slotFilter builds the one-pass lookup filter for a slot's candidate pool.
func (c constraints) slotFilter(slot plan.MealSlot, lo, hi float64) outbound.RecipeFilter {
	return outbound.RecipeFilter{
		MealType:              slot.MealType(),
		DietType:              c.DietType,
		ExcludeUltraProcessed: c.ExcludeUltraProcessed,
		Allergies:             c.Allergies,
		ExcludeIDs:            c.ExcludeIDs,
		MinCalories:           lo,
		MaxCalories:           hi,
	}
}

// composer selects one recipe per meal slot per day.
type composer struct {
	repo outbound.RecipeRepository
}

// slotTolerance returns the calorie window ratio for a slot.
func slotTolerance(slot plan.MealSlot) float64 {
	if slot.MealType() == recipe.MealTypeSnack {
		return snackTolerance
	}
	return mealTolerance
}

// candidates assembles the slot's candidate pool, widening once on an
// empty primary window.
func (c *composer) candidates(ctx context.Context, cons constraints, slot plan.MealSlot) ([]*recipe.Recipe, error) {
	tol := slotTolerance(slot)
	lo := slot.TargetCalories * (1 - tol)
	hi := slot.TargetCalories * (1 + tol)

	pool, err := c.repo.Find(ctx, cons.slotFilter(slot, lo, hi))
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		lo = slot.TargetCalories * fallbackLowRatio
		hi = slot.TargetCalories * fallbackHighRatio
		pool, err = c.repo.Find(ctx, cons.slotFilter(slot, lo, hi))
		if err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// fillSlot scores the pool and binds the minimum-score candidate to the
// slot. Candidates arrive in ascending id order, and only a strictly lower
// score displaces the incumbent, so identical scores resolve to the lowest
// id. This makes composition reproducible for a fixed corpus.
func (c *composer) fillSlot(ctx context.Context, cons constraints, slot plan.MealSlot, variety *varietyState) (*plan.ComposedMeal, error) {
	pool, err := c.candidates(ctx, cons, slot)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errors.NewCorpusExhaustedError(slot.Day, slot.Label, cons.describe())
	}

	var best *recipe.Recipe
	var bestScore scoreBreakdown
	for _, r := range pool {
		b := scoreCandidate(r, slot.TargetCalories, cons.Goal, variety)
		if best == nil || b.Score < bestScore.Score {
			best = r
			bestScore = b
		}
	}

	variety.NoteUse(best.ID())
	slot.State = plan.SlotStateFilled

	return &plan.ComposedMeal{
		Recipe:        best,
		Slot:          slot,
		PortionFactor: bestScore.PortionFactor,
		Macros:        bestScore.ScaledMacros,
		Explain: plan.Explanation{
			CalorieDelta:   bestScore.CalorieDelta,
			ProteinG:       bestScore.ScaledMacros.ProteinG,
			SugarG:         bestScore.ScaledMacros.SugarG,
			SodiumMG:       bestScore.ScaledMacros.SodiumMG,
			SatFatG:        bestScore.ScaledMacros.SatFatG,
			VarietyPenalty: bestScore.VarietyPenalty,
		},
	}, nil
}

// composeDays runs the full day-major, slot-major composition. Any
// unfillable slot aborts the whole generation; partial plans are never
// returned.
func (c *composer) composeDays(ctx context.Context, cons constraints, dailyCalories, mealsPerDay, days int, variety *varietyState) ([]plan.DayPlan, error) {
	dayPlans := make([]plan.DayPlan, 0, days)

	for day := 1; day <= days; day++ {
		slots := plan.DaySlots(day, dailyCalories, mealsPerDay)
		meals := make([]plan.ComposedMeal, 0, len(slots))

		for _, slot := range slots {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			meal, err := c.fillSlot(ctx, cons, slot, variety)
			if err != nil {
				return nil, err
			}
			meals = append(meals, *meal)
		}

		dayPlans = append(dayPlans, plan.DayPlan{
			Day:    day,
			Meals:  meals,
			Totals: plan.SumMeals(meals),
		})
	}

	return dayPlans, nil
}
