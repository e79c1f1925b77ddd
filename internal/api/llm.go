package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
)

// LLMHandler exposes the generation endpoints. Generated menus and plans
// are applied immediately; a generated single recipe is returned for
// review and saved through the regular recipe endpoint.
type LLMHandler struct {
	llmService       service.ILLMService
	recipeService    service.IRecipeService
	reconcileService service.IReconcileService
	authService      service.IAuthService
	rateLimiter      *middleware.RateLimiter
}

func NewLLMHandler(llmService service.ILLMService, recipeService service.IRecipeService, reconcileService service.IReconcileService, authService service.IAuthService, rateLimiter *middleware.RateLimiter) *LLMHandler {
	return &LLMHandler{
		llmService:       llmService,
		recipeService:    recipeService,
		reconcileService: reconcileService,
		authService:      authService,
		rateLimiter:      rateLimiter,
	}
}

func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	generate := router.Group("/generate")
	generate.Use(middleware.AuthMiddleware(h.authService))
	if h.rateLimiter != nil {
		generate.Use(h.rateLimiter.RateLimitMiddleware())
	}
	{
		generate.POST("/recipe", h.GenerateRecipe)
		generate.POST("/menu", h.GenerateMenu)
		generate.POST("/plan", h.GeneratePlan)
	}
}

type generateRecipeRequest struct {
	Query string `json:"query" binding:"required"`
}

type generateMenuRequest struct {
	Query string `json:"query" binding:"required"`
	Date  string `json:"date" binding:"required"`
	Meal  string `json:"meal"`
}

type generatePlanRequest struct {
	Query     string `json:"query" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	Duration  int    `json:"duration" binding:"required,min=1"`
}

func generationError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmptyGeneration) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the model produced no usable result, try rephrasing"})
		return
	}
	log.Printf("[LLMHandler] generation failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
}

func (h *LLMHandler) GenerateRecipe(c *gin.Context) {
	var req generateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.llmService.GenerateRecipe(c.Request.Context(), req.Query)
	if err != nil {
		generationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// GenerateMenu generates a multi-course menu and schedules it as a one-day
// event at the requested date and slot.
func (h *LLMHandler) GenerateMenu(c *gin.Context) {
	var req generateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	slot := req.Meal
	if slot == "" {
		slot = models.SlotSoir
	}
	if !models.IsValidSlot(slot) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown meal slot"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	menu, err := h.llmService.GenerateMenu(c.Request.Context(), req.Query)
	if err != nil {
		generationError(c, err)
		return
	}

	result, err := h.reconcileService.ApplyMenu(c.Request.Context(), menu, date, slot, userID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GeneratePlan generates a multi-day meal plan over the recipe catalog and
// applies it as a new event.
func (h *LLMHandler) GeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	catalog, err := h.recipeService.SummarizeAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe catalog"})
		return
	}

	plan, err := h.llmService.GeneratePlan(c.Request.Context(), req.Query, req.Duration, catalog)
	if err != nil {
		generationError(c, err)
		return
	}

	result, err := h.reconcileService.ApplyPlan(c.Request.Context(), plan, startDate, req.Duration, userID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}
