package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/atable/backend/internal/models"
)

// ShoppingItem is one aggregated line of a shopping list
type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
}

// ShoppingService builds shopping lists from recipe selections
type ShoppingService struct {
	recipes *RecipeService
}

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(recipes *RecipeService) *ShoppingService {
	return &ShoppingService{recipes: recipes}
}

// BuildShoppingList merges the ingredients of the given recipes into one
// list. Ingredients are deduplicated by trimmed, lowercased name; the
// displayed name and the item order come from the first occurrence, and
// quantities of merged duplicates are joined with " + ".
func BuildShoppingList(recipes []*models.Recipe) []ShoppingItem {
	items := make([]ShoppingItem, 0)
	index := make(map[string]int)

	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ing.Name))
			if i, seen := index[key]; seen {
				if ing.Quantity != "" {
					if items[i].Quantity != "" {
						items[i].Quantity += " + " + ing.Quantity
					} else {
						items[i].Quantity = ing.Quantity
					}
				}
				continue
			}
			index[key] = len(items)
			items = append(items, ShoppingItem{
				Name:     ing.Name,
				Quantity: ing.Quantity,
				Checked:  false,
			})
		}
	}
	return items
}

// ListForRecipes resolves the given recipe ids and aggregates their
// ingredients. Unknown ids are skipped rather than failing the list.
func (s *ShoppingService) ListForRecipes(ctx context.Context, ids []uuid.UUID) ([]ShoppingItem, error) {
	recipes, err := s.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return BuildShoppingList(recipes), nil
}
