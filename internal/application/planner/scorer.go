package planner

import (
	"math"

	"github.com/mealforge/v1/internal/domain/recipe"
)

// goalWeights is the weight vector of the goal-aware scoring function.
// Lower scores are better: the protein weight subtracts, everything else
// adds.
type goalWeights struct {
	Calorie float64
	Protein float64
	Fat     float64
	Sugar   float64
	SatFat  float64
	Time    float64
}

// weightTable is the closed (goal -> weight vector) lookup. Under
// gain_muscle protein is rewarded hardest; under lose_weight the calorie
// window tightens and sugar/saturated fat are penalized.
var weightTable = map[recipe.Goal]goalWeights{
	recipe.GoalLoseWeight: {Calorie: 1.2, Protein: 2.6, Fat: 0.12, Sugar: 0.15, SatFat: 0.25, Time: 0.20},
	recipe.GoalMaintain:   {Calorie: 1.0, Protein: 2.8, Fat: 0.10, Sugar: 0, SatFat: 0, Time: 0.18},
	recipe.GoalGainMuscle: {Calorie: 0.9, Protein: 3.2, Fat: 0.08, Sugar: 0, SatFat: 0, Time: 0.15},
}

// weightsFor returns the weight vector for a goal, defaulting to maintain.
func weightsFor(goal recipe.Goal) goalWeights {
	if w, ok := weightTable[goal]; ok {
		return w
	}
	return weightTable[recipe.GoalMaintain]
}

// varietyPenaltyStep is the score addition per prior use of the same
// recipe within a composition session.
const varietyPenaltyStep = 150.0

// scoreBreakdown captures every term of one score computation. The explain
// record is built from this exact breakdown, never recomputed.
type scoreBreakdown struct {
	Score          float64
	CalorieDelta   float64
	ScaledMacros   recipe.MacroProfile
	PortionFactor  float64
	VarietyPenalty float64
}

// scoreCandidate computes the fitness of a portion-scaled candidate against
// a slot target. Pure over its inputs plus the session-scoped variety state.
func scoreCandidate(r *recipe.Recipe, target float64, goal recipe.Goal, variety *varietyState) scoreBreakdown {
	factor := portionFactor(r.Macros().Calories, target)
	scaled := r.Macros().Scale(factor)

	w := weightsFor(goal)
	delta := scaled.Calories - target
	penalty := variety.Penalty(r.ID())

	score := w.Calorie*math.Abs(delta) -
		w.Protein*scaled.ProteinG +
		w.Fat*scaled.FatG +
		w.Sugar*scaled.SugarG +
		w.SatFat*scaled.SatFatG +
		w.Time*float64(r.PrepTimeMin()) +
		penalty

	return scoreBreakdown{
		Score:          score,
		CalorieDelta:   delta,
		ScaledMacros:   scaled,
		PortionFactor:  factor,
		VarietyPenalty: penalty,
	}
}

// Portion scaling bounds: between half and double portions, in quarter
// steps, so displayed portions stay kitchen-realistic.
const (
	minPortionFactor  = 0.5
	maxPortionFactor  = 2.0
	portionFactorStep = 0.25
)

// portionFactor quantizes the ratio of slot target to per-serving calories.
func portionFactor(calories, target float64) float64 {
	if calories <= 0 {
		return 1.0
	}
	f := target / calories
	f = math.Round(f/portionFactorStep) * portionFactorStep
	if f < minPortionFactor {
		return minPortionFactor
	}
	if f > maxPortionFactor {
		return maxPortionFactor
	}
	return f
}
