package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atable/backend/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestAddRecipeToPlanThenGet(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Quiche Lorraine", nil)
	date := mustDate(t, "2026-09-14")

	meal, err := planning.AddRecipeToPlan(ctx, date, models.SlotMidi, recipe.ID, models.CoursePlat, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-14", meal.Date)
	assert.Equal(t, models.SlotMidi, meal.Meal)
	require.Len(t, meal.Recipes, 1)

	meals, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, recipe.ID, meals[0].Recipes[0].RecipeID)
}

func TestAddRecipeToPlanIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Boeuf bourguignon", nil)
	date := mustDate(t, "2026-09-14")

	for i := 0; i < 3; i++ {
		_, err := planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CoursePlat, nil)
		require.NoError(t, err)
	}

	meals, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Len(t, meals[0].Recipes, 1)
}

func TestSameRecipeAsDifferentCourses(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Gougères", nil)
	date := mustDate(t, "2026-09-14")

	_, err := planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CourseAperitif, nil)
	require.NoError(t, err)
	meal, err := planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CourseEntree, nil)
	require.NoError(t, err)

	assert.Len(t, meal.Recipes, 2)
}

func TestRemoveLastRecipeDeletesMeal(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Mousse au chocolat", nil)
	date := mustDate(t, "2026-09-14")

	_, err := planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CourseDessert, nil)
	require.NoError(t, err)

	err = planning.RemoveRecipeFromPlan(ctx, date, models.SlotSoir, recipe.ID, models.CourseDessert, nil)
	require.NoError(t, err)

	meals, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	assert.Empty(t, meals)

	var count int64
	db.Model(&models.PlannedMeal{}).Count(&count)
	assert.Zero(t, count, "empty meal records must not linger")
}

func TestRemoveMissingAssignmentIsNoOp(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Kir royal", nil)
	date := mustDate(t, "2026-09-14")

	err := planning.RemoveRecipeFromPlan(ctx, date, models.SlotMidi, recipe.ID, models.CoursePlat, nil)
	assert.NoError(t, err)

	// Same date and slot but a different course must leave the meal alone.
	_, err = planning.AddRecipeToPlan(ctx, date, models.SlotMidi, recipe.ID, models.CoursePlat, nil)
	require.NoError(t, err)
	err = planning.RemoveRecipeFromPlan(ctx, date, models.SlotMidi, recipe.ID, models.CourseDessert, nil)
	require.NoError(t, err)

	meals, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Len(t, meals[0].Recipes, 1)
}

// An event meal and a plain calendar meal on the same date and slot are
// distinct records, and queries never mix them up.
func TestEventMealsAreSeparateFromCalendar(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Pizza maison", nil)
	date := mustDate(t, "2026-09-19")

	event, err := planning.AddEvent(ctx, "Soirée Pizza", date, 1)
	require.NoError(t, err)

	_, err = planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CoursePlat, nil)
	require.NoError(t, err)
	_, err = planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CoursePlat, &event.ID)
	require.NoError(t, err)

	plain, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Nil(t, plain[0].EventID)

	scoped, err := planning.GetPlanForDate(ctx, date, &event.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.NotNil(t, scoped[0].EventID)
	assert.Equal(t, event.ID, *scoped[0].EventID)
}

func TestRemoveEventCascadesToMeals(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	recipe := makeRecipe(t, db, "Raclette", nil)
	date := mustDate(t, "2026-12-20")

	event, err := planning.AddEvent(ctx, "Week-end au ski", date, 2)
	require.NoError(t, err)

	_, err = planning.AddRecipeToPlan(ctx, date, models.SlotSoir, recipe.ID, models.CoursePlat, &event.ID)
	require.NoError(t, err)
	_, err = planning.AddRecipeToPlan(ctx, date.AddDate(0, 0, 1), models.SlotMidi, recipe.ID, models.CoursePlat, &event.ID)
	require.NoError(t, err)

	// A calendar meal on the same date must survive the cascade.
	_, err = planning.AddRecipeToPlan(ctx, date, models.SlotMidi, recipe.ID, models.CoursePlat, nil)
	require.NoError(t, err)

	require.NoError(t, planning.RemoveEvent(ctx, event.ID))

	_, err = planning.GetEventByID(ctx, event.ID)
	assert.Error(t, err)

	orphans, err := planning.GetMealsForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	plain, err := planning.GetPlanForDate(ctx, date, nil)
	require.NoError(t, err)
	assert.Len(t, plain, 1)
}

func TestUpdateEventReplacesFields(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	event, err := planning.AddEvent(ctx, "Anniversaire", mustDate(t, "2026-10-01"), 1)
	require.NoError(t, err)

	event.Name = "Anniversaire de Léa"
	event.Duration = 2
	require.NoError(t, planning.UpdateEvent(ctx, event))

	got, err := planning.GetEventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anniversaire de Léa", got.Name)
	assert.Equal(t, 2, got.Duration)
}

func TestListEventsOrdersByStartDate(t *testing.T) {
	db := newTestDB(t)
	planning := NewPlanningService(db)
	ctx := context.Background()

	_, err := planning.AddEvent(ctx, "Ancien", mustDate(t, "2026-01-10"), 1)
	require.NoError(t, err)
	_, err = planning.AddEvent(ctx, "Récent", mustDate(t, "2026-11-10"), 1)
	require.NoError(t, err)

	events, err := planning.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Récent", events[0].Name)
}
