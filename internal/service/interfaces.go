package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(tokenString string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe catalog operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context, category, search string) ([]*models.Recipe, error)
	SummarizeAll(ctx context.Context) ([]models.RecipeSummary, error)
}

// IPlanningService defines the interface for calendar and event operations
type IPlanningService interface {
	AddRecipeToPlan(ctx context.Context, date time.Time, slot string, recipeID uuid.UUID, mealType string, eventID *uuid.UUID) (*models.PlannedMeal, error)
	RemoveRecipeFromPlan(ctx context.Context, date time.Time, slot string, recipeID uuid.UUID, mealType string, eventID *uuid.UUID) error
	GetPlanForDate(ctx context.Context, date time.Time, eventID *uuid.UUID) ([]models.PlannedMeal, error)
	AddEvent(ctx context.Context, name string, startDate time.Time, duration int) (*models.PlannedEvent, error)
	UpdateEvent(ctx context.Context, event *models.PlannedEvent) error
	RemoveEvent(ctx context.Context, eventID uuid.UUID) error
	GetEventByID(ctx context.Context, eventID uuid.UUID) (*models.PlannedEvent, error)
	ListEvents(ctx context.Context) ([]models.PlannedEvent, error)
	GetMealsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.PlannedMeal, error)
}

// ILLMService defines the interface for structured generation
type ILLMService interface {
	GenerateRecipe(ctx context.Context, query string) (*GeneratedRecipe, error)
	GenerateMenu(ctx context.Context, query string) (*GeneratedMenu, error)
	GeneratePlan(ctx context.Context, query string, duration int, catalog []models.RecipeSummary) (*GeneratedPlan, error)
}

// IImporterService defines the interface for recipe extraction and drafts
type IImporterService interface {
	ImportFromURL(ctx context.Context, url string) (*ImportedRecipe, error)
	ImportFromPhoto(ctx context.Context, photoDataURI string) (*ImportedRecipe, error)
	SaveDraft(ctx context.Context, draft *ImportDraft) error
	GetDraft(ctx context.Context, id string) (*ImportDraft, error)
	UpdateDraft(ctx context.Context, draft *ImportDraft) error
	DeleteDraft(ctx context.Context, id string) error
}

// IReconcileService defines the interface for applying generated output
type IReconcileService interface {
	ApplyPlan(ctx context.Context, plan *GeneratedPlan, startDate time.Time, duration int, userID uuid.UUID) (*PlanApplyResult, error)
	ApplyMenu(ctx context.Context, menu *GeneratedMenu, date time.Time, slot string, userID uuid.UUID) (*PlanApplyResult, error)
}

// IImageService defines the interface for recipe image generation
type IImageService interface {
	GenerateRecipeImage(ctx context.Context, recipe *models.Recipe) (string, error)
}
