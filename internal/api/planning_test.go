package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/types"
)

func createRecipeForPlanning(t *testing.T, env *TestEnv, token string) models.Recipe {
	t.Helper()
	w := PerformRequest(env.Router, "POST", "/api/v1/recipes", token, validRecipePayload())
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestPlanAndUnplanMeal(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)
	_, token := CreateTestUserAndToken(t, env)
	recipe := createRecipeForPlanning(t, env, token)

	payload := types.PlanMealRequest{
		Date:     "2026-09-14",
		Meal:     models.SlotMidi,
		RecipeID: recipe.ID.String(),
		MealType: models.CoursePlat,
	}

	w := PerformRequest(env.Router, "POST", "/api/v1/planning/meals", token, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-09-14", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan struct {
		Meals []models.PlannedMeal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, models.SlotMidi, plan.Meals[0].Meal)

	w = PerformRequest(env.Router, "DELETE", "/api/v1/planning/meals", token, payload)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-09-14", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plan.Meals = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Empty(t, plan.Meals)
}

func TestPlanMealRejectsBadInput(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)
	_, token := CreateTestUserAndToken(t, env)
	recipe := createRecipeForPlanning(t, env, token)

	cases := []types.PlanMealRequest{
		{Date: "14/09/2026", Meal: models.SlotMidi, RecipeID: recipe.ID.String(), MealType: models.CoursePlat},
		{Date: "2026-09-14", Meal: "Brunch", RecipeID: recipe.ID.String(), MealType: models.CoursePlat},
		{Date: "2026-09-14", Meal: models.SlotMidi, RecipeID: recipe.ID.String(), MealType: "Fromage"},
		{Date: "2026-09-14", Meal: models.SlotMidi, RecipeID: "not-a-uuid", MealType: models.CoursePlat},
	}
	for _, payload := range cases {
		w := PerformRequest(env.Router, "POST", "/api/v1/planning/meals", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %+v", payload)
	}
}

func TestEventLifecycleEndpoints(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)
	_, token := CreateTestUserAndToken(t, env)
	recipe := createRecipeForPlanning(t, env, token)

	w := PerformRequest(env.Router, "POST", "/api/v1/planning/events", token, types.CreateEventRequest{
		Name:      "Week-end au ski",
		StartDate: "2026-12-19",
		Duration:  2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var event models.PlannedEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))

	eventID := event.ID.String()
	w = PerformRequest(env.Router, "POST", "/api/v1/planning/meals", token, types.PlanMealRequest{
		Date:     "2026-12-19",
		Meal:     models.SlotSoir,
		RecipeID: recipe.ID.String(),
		MealType: models.CoursePlat,
		EventID:  &eventID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = PerformRequest(env.Router, "GET", "/api/v1/planning/events/"+eventID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Event models.PlannedEvent  `json:"event"`
		Meals []models.PlannedMeal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Week-end au ski", detail.Event.Name)
	assert.Len(t, detail.Meals, 1)

	// Scoped and unscoped calendar queries stay separate.
	w = PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-12-19", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plain struct {
		Meals []models.PlannedMeal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plain))
	assert.Empty(t, plain.Meals)

	w = PerformRequest(env.Router, "PUT", "/api/v1/planning/events/"+eventID, token, types.UpdateEventRequest{
		Name:      "Semaine au ski",
		StartDate: "2026-12-19",
		Duration:  7,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(env.Router, "DELETE", "/api/v1/planning/events/"+eventID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequest(env.Router, "GET", "/api/v1/planning/events/"+eventID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-12-19&event_id="+eventID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var scoped struct {
		Meals []models.PlannedMeal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scoped))
	assert.Empty(t, scoped.Meals, "event deletion cascades to its meals")
}

func TestPlanningRequiresAuth(t *testing.T) {
	env := SetupTestEnv(t, nil, nil)

	w := PerformRequest(env.Router, "GET", "/api/v1/planning?date=2026-09-14", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
