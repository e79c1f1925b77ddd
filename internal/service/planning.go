package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atable/backend/internal/models"
)

// PlanningService owns calendar meal assignments and multi-day events.
// It maintains the planning invariants: one PlannedMeal per
// (date, slot, event) triple, no empty meal records, and no duplicate
// (recipe, course) pair within a meal.
type PlanningService struct {
	db *gorm.DB
}

// NewPlanningService creates a new PlanningService instance
func NewPlanningService(db *gorm.DB) *PlanningService {
	return &PlanningService{db: db}
}

// mealScope narrows a query to one (date, slot, event) identity. A nil
// event matches only records outside any event, never "any event".
func (s *PlanningService) mealScope(ctx context.Context, date, slot string, eventID *uuid.UUID) *gorm.DB {
	query := s.db.WithContext(ctx).Where("date = ? AND meal = ?", date, slot)
	if eventID == nil {
		return query.Where("event_id IS NULL")
	}
	return query.Where("event_id = ?", *eventID)
}

// AddRecipeToPlan assigns a recipe to a course in the meal identified by
// (date, slot, eventID), creating the meal record if needed. Adding a
// (recipe, course) pair that is already present is a silent no-op.
func (s *PlanningService) AddRecipeToPlan(ctx context.Context, date time.Time, slot string, recipeID uuid.UUID, mealType string, eventID *uuid.UUID) (*models.PlannedMeal, error) {
	dateStr := date.Format(models.DateLayout)

	var meal models.PlannedMeal
	err := s.mealScope(ctx, dateStr, slot, eventID).First(&meal).Error
	switch {
	case err == nil:
		if meal.Recipes.Contains(recipeID, mealType) {
			return &meal, nil
		}
		meal.Recipes = append(meal.Recipes, models.PlannedRecipe{RecipeID: recipeID, MealType: mealType})
		if err := s.db.WithContext(ctx).Save(&meal).Error; err != nil {
			return nil, err
		}
		return &meal, nil

	case err == gorm.ErrRecordNotFound:
		meal = models.PlannedMeal{
			ID:      uuid.New(),
			Date:    dateStr,
			Meal:    slot,
			Recipes: models.PlannedRecipeList{{RecipeID: recipeID, MealType: mealType}},
			EventID: eventID,
		}
		if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
			return nil, err
		}
		return &meal, nil

	default:
		return nil, err
	}
}

// RemoveRecipeFromPlan removes the matching (recipe, course) assignment.
// The meal record itself is deleted as soon as its recipe list empties.
// Removing an assignment that does not exist is a no-op.
func (s *PlanningService) RemoveRecipeFromPlan(ctx context.Context, date time.Time, slot string, recipeID uuid.UUID, mealType string, eventID *uuid.UUID) error {
	dateStr := date.Format(models.DateLayout)

	var meal models.PlannedMeal
	if err := s.mealScope(ctx, dateStr, slot, eventID).First(&meal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	remaining := make(models.PlannedRecipeList, 0, len(meal.Recipes))
	for _, pr := range meal.Recipes {
		if pr.RecipeID == recipeID && pr.MealType == mealType {
			continue
		}
		remaining = append(remaining, pr)
	}
	if len(remaining) == len(meal.Recipes) {
		return nil
	}

	if len(remaining) == 0 {
		return s.db.WithContext(ctx).Delete(&models.PlannedMeal{}, "id = ?", meal.ID).Error
	}

	meal.Recipes = remaining
	return s.db.WithContext(ctx).Save(&meal).Error
}

// GetPlanForDate returns the meal records for a date. The event filter is
// an exact match on the optional key: a nil eventID returns only plain
// calendar entries.
func (s *PlanningService) GetPlanForDate(ctx context.Context, date time.Time, eventID *uuid.UUID) ([]models.PlannedMeal, error) {
	dateStr := date.Format(models.DateLayout)

	query := s.db.WithContext(ctx).Where("date = ?", dateStr)
	if eventID == nil {
		query = query.Where("event_id IS NULL")
	} else {
		query = query.Where("event_id = ?", *eventID)
	}

	var meals []models.PlannedMeal
	if err := query.Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// AddEvent constructs and stores a new event, returning it so the caller
// can chain meal assignments against its id.
func (s *PlanningService) AddEvent(ctx context.Context, name string, startDate time.Time, duration int) (*models.PlannedEvent, error) {
	event := models.PlannedEvent{
		ID:        uuid.New(),
		Name:      name,
		StartDate: startDate.Format(models.DateLayout),
		Duration:  duration,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent replaces an event's fields by id
func (s *PlanningService) UpdateEvent(ctx context.Context, event *models.PlannedEvent) error {
	var existing models.PlannedEvent
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", event.ID).Error; err != nil {
		return err
	}
	event.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(event).Error
}

// RemoveEvent deletes an event and cascades deletion to every meal record
// referencing it.
func (s *PlanningService) RemoveEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&models.PlannedMeal{}, "event_id = ?", eventID).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.PlannedEvent{}, "id = ?", eventID).Error
}

// GetEventByID retrieves an event by id
func (s *PlanningService) GetEventByID(ctx context.Context, eventID uuid.UUID) (*models.PlannedEvent, error) {
	var event models.PlannedEvent
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns all events, most recent start date first
func (s *PlanningService) ListEvents(ctx context.Context) ([]models.PlannedEvent, error) {
	var events []models.PlannedEvent
	if err := s.db.WithContext(ctx).Order("start_date DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// GetMealsForEvent returns every meal record belonging to an event
func (s *PlanningService) GetMealsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.PlannedMeal, error) {
	var meals []models.PlannedMeal
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("date, meal").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}
