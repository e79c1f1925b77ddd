package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atable/backend/internal/service"
)

type ShoppingHandler struct {
	shoppingService *service.ShoppingService
}

func NewShoppingHandler(shoppingService *service.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shopping-list", h.GetShoppingList)
}

// GetShoppingList aggregates the ingredients of the recipes named in the
// comma-separated ids query parameter. Unknown and malformed ids are
// skipped so a stale link still produces a list.
func (h *ShoppingHandler) GetShoppingList(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"items": []service.ShoppingItem{}})
		return
	}

	ids := make([]uuid.UUID, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	items, err := h.shoppingService.ListForRecipes(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
