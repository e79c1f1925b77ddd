package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "À table API is running",
		"version": "v1.0.0",
	})
}

// currentUserID returns the authenticated user's id from the request
// context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Services bundles everything the route table depends on. ImageService
// and the redis client may be nil; the related features degrade rather
// than blocking startup.
type Services struct {
	Auth      service.IAuthService
	Recipes   service.IRecipeService
	Planning  service.IPlanningService
	Shopping  *service.ShoppingService
	LLM       service.ILLMService
	Importer  service.IImporterService
	Reconcile service.IReconcileService
	Image     service.IImageService
	Redis     *redis.Client
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svcs Services) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	var generationLimiter *middleware.RateLimiter
	if svcs.Redis != nil {
		generationLimiter = middleware.NewGenerationRateLimiter(svcs.Redis)
	}

	authHandler := NewAuthHandler(svcs.Auth)
	recipeHandler := NewRecipeHandler(svcs.Recipes, svcs.Image, svcs.Auth)
	planningHandler := NewPlanningHandler(svcs.Planning, svcs.Auth)
	shoppingHandler := NewShoppingHandler(svcs.Shopping)
	llmHandler := NewLLMHandler(svcs.LLM, svcs.Recipes, svcs.Reconcile, svcs.Auth, generationLimiter)
	importHandler := NewImportHandler(svcs.Importer, svcs.Recipes, svcs.Auth, generationLimiter)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	planningHandler.RegisterRoutes(v1)
	shoppingHandler.RegisterRoutes(v1)
	llmHandler.RegisterRoutes(v1)
	importHandler.RegisterRoutes(v1)
}
