package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atable/backend/internal/models"
)

// RecipeService owns the recipe catalog
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a new recipe. Ids for the recipe and its
// ingredients are assigned here and are immutable afterwards.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.Category == "" {
		recipe.Category = models.CategoryPlat
	}
	if !models.IsValidCategory(recipe.Category) {
		return nil, fmt.Errorf("invalid category %q", recipe.Category)
	}
	if recipe.Servings < 1 {
		recipe.Servings = 1
	}
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == "" {
			recipe.Ingredients[i].ID = uuid.New().String()
		}
	}
	recipe.Embedding = GenerateEmbedding(recipe.Title + " " + recipe.Description)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipesByIDs resolves recipes in the given order, silently skipping
// ids that do not exist. Used by the shopping-list deep link.
func (s *RecipeService) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Recipe, error) {
	recipes := make([]*models.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, err := s.GetRecipe(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// UpdateRecipe replaces a recipe by id. There is no field-level patch;
// the stored record becomes exactly what the caller supplies.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.IsValidCategory(recipe.Category) {
		return nil, fmt.Errorf("invalid category %q", recipe.Category)
	}

	recipe.ID = existing.ID
	recipe.CreatedAt = existing.CreatedAt
	recipe.UserID = existing.UserID
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == "" {
			recipe.Ingredients[i].ID = uuid.New().String()
		}
	}
	recipe.Embedding = GenerateEmbedding(recipe.Title + " " + recipe.Description)

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe deletes a recipe by id
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// ListRecipes lists recipes, optionally filtered by category and free-text
// search. On PostgreSQL search results are ordered by embedding distance;
// elsewhere a keyword LIKE filter is used.
func (s *RecipeService) ListRecipes(ctx context.Context, category, search string) ([]*models.Recipe, error) {
	query := s.db.WithContext(ctx)

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(search)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		}
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// SummarizeAll returns the compact shape of every recipe, the input handed
// to the meal-plan generator.
func (s *RecipeService) SummarizeAll(ctx context.Context) ([]models.RecipeSummary, error) {
	recipes, err := s.ListRecipes(ctx, "", "")
	if err != nil {
		return nil, err
	}
	summaries := make([]models.RecipeSummary, len(recipes))
	for i, r := range recipes {
		summaries[i] = r.Summarize()
	}
	return summaries, nil
}
