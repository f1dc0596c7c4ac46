// Package planner provides the application layer of the meal-plan engine.
// It implements the use cases defined in the inbound ports: plan
// generation, single-slot replacement, and recipe search.
package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/domain/plan"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/errors"
)

// Service implements the planner use cases.
type Service struct {
	repo     outbound.RecipeRepository
	cache    outbound.CacheRepository
	metrics  outbound.EngineMetrics
	validate *validator.Validate
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewService creates a new planner service. cache and metrics may be nil:
// without a cache every request is computed from scratch, without a
// recorder nothing is measured.
func NewService(
	repo outbound.RecipeRepository,
	cache outbound.CacheRepository,
	metrics outbound.EngineMetrics,
	logger *zap.Logger,
	cacheTTL time.Duration,
) inbound.PlannerService {
	v := validator.New()
	// Error messages name fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &Service{
		repo:     repo,
		cache:    cache,
		metrics:  metrics,
		validate: v,
		logger:   logger.Named("planner"),
		cacheTTL: cacheTTL,
	}
}

// GeneratePlan composes a full multi-day meal plan. Validation happens
// before any corpus access; an unfillable slot fails the whole request.
func (s *Service) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.PlanDTO, error) {
	normalizeGenerate(&cmd)
	if err := s.checkCommand(cmd); err != nil {
		return nil, err
	}

	if dto, ok := s.cachedPlan(ctx, cmd); ok {
		return dto, nil
	}

	cons := constraints{
		DietType:              recipe.DietType(cmd.DietType),
		Goal:                  recipe.Goal(cmd.Goal),
		Allergies:             cmd.Allergies,
		ExcludeUltraProcessed: cmd.ExcludeUltraProcessed,
	}

	start := time.Now()

	if err := s.checkCorpus(ctx, cons); err != nil {
		s.recordPlan(cmd, "error", 0)
		return nil, err
	}

	comp := &composer{repo: s.repo}
	variety := newVarietyState(cmd.Variety)

	days, err := comp.composeDays(ctx, cons, cmd.Calories, cmd.MealsPerDay, cmd.Days, variety)
	if err != nil {
		s.recordPlan(cmd, "error", 0)
		return nil, err
	}

	p, err := aggregate(days)
	if err != nil {
		s.logger.Error("plan aggregation invariant violated",
			zap.Int("days", cmd.Days),
			zap.Int("meals_per_day", cmd.MealsPerDay),
			zap.Error(err),
		)
		s.recordPlan(cmd, "error", 0)
		return nil, err
	}

	dto := planDTO(p, inbound.PlanMetaDTO{
		Days:                  cmd.Days,
		MealsPerDay:           cmd.MealsPerDay,
		DietType:              cmd.DietType,
		Goal:                  cmd.Goal,
		ExcludeUltraProcessed: cmd.ExcludeUltraProcessed,
		Variety:               cmd.Variety,
		Allergies:             cmd.Allergies,
	})

	s.storePlan(ctx, cmd, dto)
	s.recordPlan(cmd, "success", time.Since(start))

	s.logger.Info("plan generated",
		zap.Int("days", cmd.Days),
		zap.Int("meals_per_day", cmd.MealsPerDay),
		zap.Int("meals", p.MealCount()),
		zap.String("goal", cmd.Goal),
	)

	return dto, nil
}

// ReplaceMeal re-runs filter+score+select for a single slot under the
// caller-supplied exclusion identifiers. The rest of the plan is untouched;
// the caller re-derives totals by full resummation.
func (s *Service) ReplaceMeal(ctx context.Context, cmd inbound.ReplaceMealCommand) (*inbound.MealDTO, error) {
	normalizeReplace(&cmd)
	if err := s.checkCommand(cmd); err != nil {
		return nil, err
	}

	exclude := make(map[int64]struct{}, len(cmd.ExcludeRecipeIDs))
	for _, id := range cmd.ExcludeRecipeIDs {
		exclude[id] = struct{}{}
	}

	cons := constraints{
		DietType:              recipe.DietType(cmd.DietType),
		Goal:                  recipe.Goal(cmd.Goal),
		Allergies:             cmd.Allergies,
		ExcludeUltraProcessed: cmd.ExcludeUltraProcessed,
		ExcludeIDs:            exclude,
	}

	target := plan.SlotTarget(cmd.Calories, cmd.MealsPerDay, cmd.Slot)
	if cmd.TargetMealCalories != nil && *cmd.TargetMealCalories > 0 {
		target = *cmd.TargetMealCalories
	}

	slot := plan.MealSlot{
		Day:            cmd.Day,
		Label:          cmd.Slot,
		TargetCalories: target,
		State:          plan.SlotStatePending,
	}

	comp := &composer{repo: s.repo}
	meal, err := comp.fillSlot(ctx, cons, slot, newVarietyState(cmd.Variety))
	if err != nil {
		if s.metrics != nil {
			s.metrics.MealReplaced(cmd.Slot, "error")
		}
		if errors.Is(err, errors.CodeCorpusExhausted) {
			return nil, errors.NewReplacementExhaustedError(cmd.Slot, len(cmd.ExcludeRecipeIDs))
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.MealReplaced(cmd.Slot, "success")
	}

	s.logger.Info("meal replaced",
		zap.Int("day", cmd.Day),
		zap.String("slot", cmd.Slot),
		zap.Int64("recipe_id", meal.Recipe.ID()),
		zap.Int("excluded", len(cmd.ExcludeRecipeIDs)),
	)

	dto := mealDTO(*meal)
	return &dto, nil
}

// SearchRecipes performs free-text lookup over recipe names and
// ingredient names.
func (s *Service) SearchRecipes(ctx context.Context, query inbound.SearchQuery) ([]inbound.RecipeSummaryDTO, error) {
	q := strings.ToLower(strings.TrimSpace(query.Query))
	if q == "" {
		return []inbound.RecipeSummaryDTO{}, nil
	}

	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	hits, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		return nil, errors.Wrap(err, "recipe search failed")
	}

	out := make([]inbound.RecipeSummaryDTO, 0, len(hits))
	for _, r := range hits {
		m := r.Macros()
		out = append(out, inbound.RecipeSummaryDTO{
			RecipeID:    r.ID(),
			Name:        r.Name(),
			MealType:    string(r.MealType()),
			DietType:    string(r.DietType()),
			Minutes:     r.PrepTimeMin(),
			Calories:    plan.Round1(m.Calories),
			ProteinG:    plan.Round1(m.ProteinG),
			CarbsG:      plan.Round1(m.CarbsG),
			FatG:        plan.Round1(m.FatG),
			Ingredients: r.IngredientNames(),
		})
	}
	return out, nil
}

// checkCorpus verifies that at least one recipe survives the base
// constraint set before composition starts.
func (s *Service) checkCorpus(ctx context.Context, cons constraints) error {
	base := outbound.RecipeFilter{
		DietType:              cons.DietType,
		ExcludeUltraProcessed: cons.ExcludeUltraProcessed,
		Allergies:             cons.Allergies,
	}
	matches, err := s.repo.Find(ctx, base)
	if err != nil {
		return errors.Wrap(err, "corpus lookup failed")
	}
	if len(matches) == 0 {
		return errors.NewCorpusEmptyError(cons.describe())
	}
	return nil
}

// checkCommand runs struct validation and converts failures to the
// field-naming validation error shape.
func (s *Service) checkCommand(cmd interface{}) error {
	err := s.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "request validation failed")
	}

	fields := make([]errors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: "invalid value for " + fe.Field(),
		})
	}
	return errors.NewValidationErrors(fields)
}

// normalizeGenerate applies request defaults and normalizes allergy tokens.
func normalizeGenerate(cmd *inbound.GeneratePlanCommand) {
	if cmd.DietType == "" {
		cmd.DietType = string(recipe.DietTypeNonVegetarian)
	}
	if cmd.Goal == "" {
		cmd.Goal = string(recipe.GoalMaintain)
	}
	cmd.Allergies = normalizeAllergies(cmd.Allergies)
}

func normalizeReplace(cmd *inbound.ReplaceMealCommand) {
	if cmd.DietType == "" {
		cmd.DietType = string(recipe.DietTypeNonVegetarian)
	}
	if cmd.Goal == "" {
		cmd.Goal = string(recipe.GoalMaintain)
	}
	if cmd.Slot == "" {
		cmd.Slot = "lunch"
	}
	cmd.Allergies = normalizeAllergies(cmd.Allergies)
}

// normalizeAllergies lowercases, trims, and drops empty allergy strings.
func normalizeAllergies(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// cachedPlan looks up a previously computed plan by request digest. The
// engine is deterministic over a fixed corpus, so a hit is
// indistinguishable from recomputation.
func (s *Service) cachedPlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.PlanDTO, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, planCacheKey(cmd))
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("plan cache get failed", zap.Error(err))
		}
		s.recordCacheLookup(false)
		return nil, false
	}
	var dto inbound.PlanDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		s.logger.Warn("plan cache entry corrupt", zap.Error(err))
		s.recordCacheLookup(false)
		return nil, false
	}
	s.recordCacheLookup(true)
	return &dto, true
}

func (s *Service) recordPlan(cmd inbound.GeneratePlanCommand, status string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.PlanGenerated(cmd.Goal, cmd.DietType, status, duration)
	}
}

func (s *Service) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.PlanCacheLookup(hit)
	}
}

func (s *Service) storePlan(ctx context.Context, cmd inbound.GeneratePlanCommand, dto *inbound.PlanDTO) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, planCacheKey(cmd), raw, s.cacheTTL); err != nil {
		s.logger.Warn("plan cache set failed", zap.Error(err))
	}
}

// planCacheKey digests the normalized command into a stable cache key.
func planCacheKey(cmd inbound.GeneratePlanCommand) string {
	raw, _ := json.Marshal(cmd)
	sum := sha256.Sum256(raw)
	return "plan:" + hex.EncodeToString(sum[:])
}
