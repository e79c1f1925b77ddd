package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atable/backend/internal/middleware"
	"github.com/atable/backend/internal/service"
)

// ImportHandler exposes recipe extraction from external sources. Every
// extraction lands in a short-lived draft that the user reviews, edits
// and confirms before a recipe is stored.
type ImportHandler struct {
	importerService service.IImporterService
	recipeService   service.IRecipeService
	authService     service.IAuthService
	rateLimiter     *middleware.RateLimiter
}

func NewImportHandler(importerService service.IImporterService, recipeService service.IRecipeService, authService service.IAuthService, rateLimiter *middleware.RateLimiter) *ImportHandler {
	return &ImportHandler{
		importerService: importerService,
		recipeService:   recipeService,
		authService:     authService,
		rateLimiter:     rateLimiter,
	}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	imports := router.Group("/import")
	imports.Use(middleware.AuthMiddleware(h.authService))
	{
		extract := imports.Group("")
		if h.rateLimiter != nil {
			extract.Use(h.rateLimiter.RateLimitMiddleware())
		}
		extract.POST("/url", h.ImportFromURL)
		extract.POST("/photo", h.ImportFromPhoto)

		imports.GET("/drafts/:id", h.GetDraft)
		imports.PUT("/drafts/:id", h.UpdateDraft)
		imports.POST("/drafts/:id/confirm", h.ConfirmDraft)
		imports.DELETE("/drafts/:id", h.DeleteDraft)
	}
}

// available reports whether the import backend is configured. Without
// Redis there is nowhere to hold drafts and the feature is disabled.
func (h *ImportHandler) available(c *gin.Context) bool {
	if h.importerService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "import is not configured"})
		return false
	}
	return true
}

type importURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type importPhotoRequest struct {
	// Photo is a data URI, "data:image/jpeg;base64,...".
	Photo string `json:"photo" binding:"required"`
}

func (h *ImportHandler) saveDraft(c *gin.Context, source string, imported *service.ImportedRecipe) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	draft := &service.ImportDraft{
		Source: source,
		UserID: userID.String(),
		Recipe: *imported,
	}
	if err := h.importerService.SaveDraft(c.Request.Context(), draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *ImportHandler) ImportFromURL(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req importURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imported, err := h.importerService.ImportFromURL(c.Request.Context(), req.URL)
	if err != nil {
		generationError(c, err)
		return
	}

	h.saveDraft(c, req.URL, imported)
}

func (h *ImportHandler) ImportFromPhoto(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req importPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imported, err := h.importerService.ImportFromPhoto(c.Request.Context(), req.Photo)
	if err != nil {
		generationError(c, err)
		return
	}

	h.saveDraft(c, "photo", imported)
}

// draftForUser loads a draft and checks it belongs to the caller
func (h *ImportHandler) draftForUser(c *gin.Context) (*service.ImportDraft, bool) {
	if !h.available(c) {
		return nil, false
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	draft, err := h.importerService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found or expired"})
		return nil, false
	}
	if draft.UserID != userID.String() {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found or expired"})
		return nil, false
	}
	return draft, true
}

func (h *ImportHandler) GetDraft(c *gin.Context) {
	draft, ok := h.draftForUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *ImportHandler) UpdateDraft(c *gin.Context) {
	draft, ok := h.draftForUser(c)
	if !ok {
		return
	}

	var recipe service.ImportedRecipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft.Recipe = recipe
	if err := h.importerService.UpdateDraft(c.Request.Context(), draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update draft"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// ConfirmDraft turns a reviewed draft into a stored recipe and discards
// the draft.
func (h *ImportHandler) ConfirmDraft(c *gin.Context) {
	draft, ok := h.draftForUser(c)
	if !ok {
		return
	}

	userID, _ := currentUserID(c)
	recipe := draft.Recipe.ToRecipe(userID)
	if recipe.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draft has no title"})
		return
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.importerService.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		log.Printf("[ImportHandler] failed to discard confirmed draft %s: %v", draft.ID, err)
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ImportHandler) DeleteDraft(c *gin.Context) {
	draft, ok := h.draftForUser(c)
	if !ok {
		return
	}

	if err := h.importerService.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}

	c.Status(http.StatusNoContent)
}
