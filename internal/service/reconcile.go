package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atable/backend/internal/models"
)

// ReconcileService turns generated plans and menus into stored recipes,
// events and calendar assignments.
type ReconcileService struct {
	recipes  *RecipeService
	planning *PlanningService
}

// NewReconcileService creates a new ReconcileService instance
func NewReconcileService(recipes *RecipeService, planning *PlanningService) *ReconcileService {
	return &ReconcileService{
		recipes:  recipes,
		planning: planning,
	}
}

// FailedEntry records one plan entry that could not be applied
type FailedEntry struct {
	Entry  PlanEntry `json:"entry"`
	Reason string    `json:"reason"`
}

// PlanApplyResult reports what a plan application actually did. A plan is
// applied entry by entry, so a failure partway through leaves the earlier
// entries in place and shows up here instead of rolling everything back.
type PlanApplyResult struct {
	Event   *models.PlannedEvent `json:"event"`
	Applied []PlanEntry          `json:"applied"`
	Failed  []FailedEntry        `json:"failed"`
}

// ValidatePlan checks a generated plan against the planning rules before
// anything is persisted: every entry is well-formed, every day from 1 to
// duration is covered, and each day has a main course at both slots.
func ValidatePlan(plan *GeneratedPlan, duration int) error {
	if len(plan.Meals) == 0 {
		return fmt.Errorf("plan contains no meals")
	}

	type daySlot struct {
		day  int
		slot string
	}
	mainCourse := make(map[daySlot]bool)
	covered := make(map[int]bool)

	for i := range plan.Meals {
		entry := &plan.Meals[i]
		if err := entry.Validate(duration); err != nil {
			return err
		}
		covered[entry.Day] = true
		if entry.MealType == models.CoursePlat {
			mainCourse[daySlot{entry.Day, entry.Meal}] = true
		}
	}

	for day := 1; day <= duration; day++ {
		if !covered[day] {
			return fmt.Errorf("day %d has no meals", day)
		}
		if !mainCourse[daySlot{day, models.SlotMidi}] {
			return fmt.Errorf("day %d has no main course at %s", day, models.SlotMidi)
		}
		if !mainCourse[daySlot{day, models.SlotSoir}] {
			return fmt.Errorf("day %d has no main course at %s", day, models.SlotSoir)
		}
	}
	return nil
}

// ApplyPlan validates a generated plan, creates its event, then applies
// the entries one by one. New recipes are persisted before they are
// scheduled. Entries that fail are collected in the result rather than
// aborting the rest of the plan.
func (s *ReconcileService) ApplyPlan(ctx context.Context, plan *GeneratedPlan, startDate time.Time, duration int, userID uuid.UUID) (*PlanApplyResult, error) {
	if err := ValidatePlan(plan, duration); err != nil {
		return nil, err
	}

	event, err := s.planning.AddEvent(ctx, plan.EventName, startDate, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result := &PlanApplyResult{Event: event}
	for _, entry := range plan.Meals {
		date := startDate.AddDate(0, 0, entry.Day-1)

		var recipeID uuid.UUID
		switch {
		case entry.NewRecipe != nil:
			recipe := entry.NewRecipe.ToRecipe(userID)
			created, err := s.recipes.CreateRecipe(ctx, recipe)
			if err != nil {
				result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: err.Error()})
				continue
			}
			recipeID = created.ID
		default:
			recipeID, err = uuid.Parse(entry.RecipeID)
			if err != nil {
				result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: "invalid recipe id"})
				continue
			}
			if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
				result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: "recipe not found"})
				continue
			}
		}

		if _, err := s.planning.AddRecipeToPlan(ctx, date, entry.Meal, recipeID, entry.MealType, &event.ID); err != nil {
			result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, entry)
	}
	return result, nil
}

// courseForCategory maps a recipe category to the course it is served as.
// Categories without a matching course default to the main course.
func courseForCategory(category string) string {
	if models.IsValidCourse(category) {
		return category
	}
	return models.CoursePlat
}

// ApplyMenu stores every recipe of a generated menu and schedules them as
// a one-day event at the given date and slot.
func (s *ReconcileService) ApplyMenu(ctx context.Context, menu *GeneratedMenu, date time.Time, slot string, userID uuid.UUID) (*PlanApplyResult, error) {
	if !models.IsValidSlot(slot) {
		return nil, fmt.Errorf("unknown meal slot %q", slot)
	}
	if len(menu.Recipes) == 0 {
		return nil, fmt.Errorf("menu contains no recipes")
	}

	event, err := s.planning.AddEvent(ctx, menu.MenuTitle, date, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result := &PlanApplyResult{Event: event}
	for i := range menu.Recipes {
		gen := &menu.Recipes[i]
		entry := PlanEntry{Day: 1, Meal: slot, MealType: courseForCategory(gen.Category), NewRecipe: gen}

		recipe := gen.ToRecipe(userID)
		created, err := s.recipes.CreateRecipe(ctx, recipe)
		if err != nil {
			result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: err.Error()})
			continue
		}

		if _, err := s.planning.AddRecipeToPlan(ctx, date, slot, created.ID, entry.MealType, &event.ID); err != nil {
			result.Failed = append(result.Failed, FailedEntry{Entry: entry, Reason: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, entry)
	}
	return result, nil
}
