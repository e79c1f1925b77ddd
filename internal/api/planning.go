package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
	"github.com/atable/backend/internal/types"
)

type PlanningHandler struct {
	planningService service.IPlanningService
	authService     service.IAuthService
}

func NewPlanningHandler(planningService service.IPlanningService, authService service.IAuthService) *PlanningHandler {
	return &PlanningHandler{
		planningService: planningService,
		authService:     authService,
	}
}

func (h *PlanningHandler) RegisterRoutes(router *gin.RouterGroup) {
	planning := router.Group("/planning")
	planning.Use(middleware.AuthMiddleware(h.authService))
	{
		planning.GET("", h.GetPlanForDate)
		planning.POST("/meals", h.AddRecipeToPlan)
		planning.DELETE("/meals", h.RemoveRecipeFromPlan)

		planning.GET("/events", h.ListEvents)
		planning.POST("/events", h.CreateEvent)
		planning.GET("/events/:id", h.GetEvent)
		planning.PUT("/events/:id", h.UpdateEvent)
		planning.DELETE("/events/:id", h.DeleteEvent)
	}
}

// parseDate parses a calendar date in the YYYY-MM-DD form
func parseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

// parseOptionalEventID turns an optional event id string into the pointer
// key used by the planning store.
func parseOptionalEventID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *PlanningHandler) planRequestArgs(c *gin.Context) (time.Time, uuid.UUID, *uuid.UUID, *types.PlanMealRequest, bool) {
	var req types.PlanMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, uuid.Nil, nil, nil, false
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, uuid.Nil, nil, nil, false
	}
	if !models.IsValidSlot(req.Meal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown meal slot"})
		return time.Time{}, uuid.Nil, nil, nil, false
	}
	if !models.IsValidCourse(req.MealType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown course"})
		return time.Time{}, uuid.Nil, nil, nil, false
	}

	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return time.Time{}, uuid.Nil, nil, nil, false
	}

	eventID, err := parseOptionalEventID(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return time.Time{}, uuid.Nil, nil, nil, false
	}

	return date, recipeID, eventID, &req, true
}

func (h *PlanningHandler) AddRecipeToPlan(c *gin.Context) {
	date, recipeID, eventID, req, ok := h.planRequestArgs(c)
	if !ok {
		return
	}

	meal, err := h.planningService.AddRecipeToPlan(c.Request.Context(), date, req.Meal, recipeID, req.MealType, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to plan meal"})
		return
	}

	c.JSON(http.StatusOK, meal)
}

func (h *PlanningHandler) RemoveRecipeFromPlan(c *gin.Context) {
	date, recipeID, eventID, req, ok := h.planRequestArgs(c)
	if !ok {
		return
	}

	if err := h.planningService.RemoveRecipeFromPlan(c.Request.Context(), date, req.Meal, recipeID, req.MealType, eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove meal"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanningHandler) GetPlanForDate(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	var eventIDStr *string
	if s := c.Query("event_id"); s != "" {
		eventIDStr = &s
	}
	eventID, err := parseOptionalEventID(eventIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	meals, err := h.planningService.GetPlanForDate(c.Request.Context(), date, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *PlanningHandler) CreateEvent(c *gin.Context) {
	var req types.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}

	event, err := h.planningService.AddEvent(c.Request.Context(), req.Name, startDate, req.Duration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *PlanningHandler) ListEvents(c *gin.Context) {
	events, err := h.planningService.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent returns an event together with its meal assignments
func (h *PlanningHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.planningService.GetEventByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	meals, err := h.planningService.GetMealsForEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch event meals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "meals": meals})
}

func (h *PlanningHandler) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req types.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := parseDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}

	event := &models.PlannedEvent{
		ID:        id,
		Name:      req.Name,
		StartDate: req.StartDate,
		Duration:  req.Duration,
	}
	if err := h.planningService.UpdateEvent(c.Request.Context(), event); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *PlanningHandler) DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.planningService.RemoveEvent(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}

	c.Status(http.StatusNoContent)
}
