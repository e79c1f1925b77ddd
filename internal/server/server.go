package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/api"
	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/service"
)

// Server wires the services into an HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New builds the full service graph and route table. The redis client may
// be nil; import drafts and rate limiting are then disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	planningService := service.NewPlanningService(db)
	shoppingService := service.NewShoppingService(recipeService)
	llmService := service.NewLLMService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel)
	reconcileService := service.NewReconcileService(recipeService, planningService)

	svcs := api.Services{
		Auth:      authService,
		Recipes:   recipeService,
		Planning:  planningService,
		Shopping:  shoppingService,
		LLM:       llmService,
		Reconcile: reconcileService,
		Redis:     redisClient,
	}

	if redisClient != nil {
		svcs.Importer = service.NewImporterService(llmService, redisClient)
	} else {
		log.Println("Redis unavailable, recipe import and rate limiting disabled")
	}

	if cfg.AWSRegion != "" && cfg.ImageAPIKey != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("Warning: S3 unavailable, image generation disabled: %v", err)
		} else {
			svcs.Image = service.NewImageService(cfg.ImageAPIKey, cfg.ImageAPIURL, s3Config)
		}
	}

	api.RegisterRoutes(router, db, svcs)

	return &Server{
		router: router,
		cfg:    cfg,
	}
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
