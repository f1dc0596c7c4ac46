package planner

import (
	"github.com/mealforge/v1/internal/domain/plan"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/pkg/errors"
)

// aggregate assembles day plans into a full Plan: totals by summation only,
// plus the consolidated shopping list. The summation invariant is verified
// before the plan leaves the engine.
func aggregate(days []plan.DayPlan) (*plan.Plan, error) {
	p := &plan.Plan{
		Days:         days,
		Totals:       plan.SumDays(days),
		ShoppingList: plan.BuildShoppingList(days),
	}
	if !p.CheckTotals() {
		return nil, errors.NewInternalError("plan totals failed the summation invariant")
	}
	return p, nil
}

// DTO mapping. Macro fields are rounded to one decimal place here, at the
// exposure boundary; everything upstream accumulates at full precision.

func totalsDTO(m recipe.MacroProfile) inbound.TotalsDTO {
	return inbound.TotalsDTO{
		Calories: plan.Round1(m.Calories),
		ProteinG: plan.Round1(m.ProteinG),
		CarbsG:   plan.Round1(m.CarbsG),
		FatG:     plan.Round1(m.FatG),
	}
}

func mealDTO(m plan.ComposedMeal) inbound.MealDTO {
	return inbound.MealDTO{
		Slot:           m.Slot.Label,
		MealType:       string(m.Slot.MealType()),
		RecipeID:       m.Recipe.ID(),
		Name:           m.Recipe.Name(),
		Minutes:        m.Recipe.PrepTimeMin(),
		Portion:        m.PortionFactor,
		TargetCalories: plan.Round1(m.Slot.TargetCalories),
		Calories:       plan.Round1(m.Macros.Calories),
		ProteinG:       plan.Round1(m.Macros.ProteinG),
		CarbsG:         plan.Round1(m.Macros.CarbsG),
		FatG:           plan.Round1(m.Macros.FatG),
		Ingredients:    m.Recipe.IngredientNames(),
		Explain: inbound.ExplainDTO{
			CalorieDelta:   plan.Round1(m.Explain.CalorieDelta),
			ProteinG:       plan.Round1(m.Explain.ProteinG),
			SugarG:         plan.Round1(m.Explain.SugarG),
			SodiumMG:       plan.Round1(m.Explain.SodiumMG),
			SatFatG:        plan.Round1(m.Explain.SatFatG),
			VarietyPenalty: plan.Round1(m.Explain.VarietyPenalty),
		},
	}
}

func dayPlanDTO(d plan.DayPlan) inbound.DayPlanDTO {
	meals := make([]inbound.MealDTO, 0, len(d.Meals))
	for _, m := range d.Meals {
		meals = append(meals, mealDTO(m))
	}
	return inbound.DayPlanDTO{
		Day:    d.Day,
		Meals:  meals,
		Totals: totalsDTO(d.Totals),
	}
}

func shoppingListDTO(l plan.ShoppingList) inbound.ShoppingListDTO {
	items := make([]inbound.ShoppingItemDTO, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, inbound.ShoppingItemDTO{Ingredient: it.Ingredient, Count: it.Count})
	}
	return inbound.ShoppingListDTO{TotalUnique: l.TotalUnique, Items: items}
}

func planDTO(p *plan.Plan, meta inbound.PlanMetaDTO) *inbound.PlanDTO {
	days := make([]inbound.DayPlanDTO, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, dayPlanDTO(d))
	}
	return &inbound.PlanDTO{
		Meta:          meta,
		Days:          days,
		OverallTotals: totalsDTO(p.Totals),
		ShoppingList:  shoppingListDTO(p.ShoppingList),
	}
}
