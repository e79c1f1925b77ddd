package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
	"github.com/atable/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	imageService  service.IImageService
	authService   service.IAuthService
}

// NewRecipeHandler creates a recipe handler. imageService may be nil, in
// which case the image generation endpoint reports the feature unavailable.
func NewRecipeHandler(recipeService service.IRecipeService, imageService service.IImageService, authService service.IAuthService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/image", middleware.AuthMiddleware(h.authService), h.GenerateImage)
	}
}

// recipeFromRequest maps a validated payload onto a recipe record
func recipeFromRequest(title, description, category string, prepTime, cookTime, servings int, ingredients []types.IngredientInput, steps []string, imageURL, imageHint string) *models.Recipe {
	list := make(models.IngredientList, len(ingredients))
	for i, ing := range ingredients {
		list[i] = models.Ingredient{Name: ing.Name, Quantity: ing.Quantity}
	}
	return &models.Recipe{
		Title:       title,
		Description: description,
		Category:    category,
		PrepTime:    prepTime,
		CookTime:    cookTime,
		Servings:    servings,
		Ingredients: list,
		Steps:       models.JSONBStringArray(steps),
		ImageURL:    imageURL,
		ImageHint:   imageHint,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe := recipeFromRequest(req.Title, req.Description, req.Category, req.PrepTime, req.CookTime, req.Servings, req.Ingredients, req.Steps, req.ImageURL, req.ImageHint)
	recipe.UserID = userID

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := recipeFromRequest(req.Title, req.Description, req.Category, req.PrepTime, req.CookTime, req.Servings, req.Ingredients, req.Steps, req.ImageURL, req.ImageHint)

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, recipe)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateImage creates an illustration for a stored recipe and saves the
// resulting URL on the record.
func (h *RecipeHandler) GenerateImage(c *gin.Context) {
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image generation is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	imageURL, err := h.imageService.GenerateRecipeImage(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "image generation failed"})
		return
	}

	recipe.ImageURL = imageURL
	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
