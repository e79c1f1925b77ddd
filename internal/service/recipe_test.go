package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atable/backend/internal/models"
)

func TestCreateRecipeAssignsIDsAndDefaults(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)

	created, err := recipes.CreateRecipe(context.Background(), &models.Recipe{
		Title: "Omelette",
		Ingredients: models.IngredientList{
			{Name: "Oeufs", Quantity: "3"},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, models.CategoryPlat, created.Category)
	assert.Equal(t, 1, created.Servings)
	assert.NotEmpty(t, created.Ingredients[0].ID)
}

func TestCreateRecipeRejectsUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)

	_, err := recipes.CreateRecipe(context.Background(), &models.Recipe{
		Title:    "Mystère",
		Category: "Petit-déjeuner",
	})
	assert.Error(t, err)
}

func TestUpdateRecipeIsFullReplace(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	ctx := context.Background()

	userID := uuid.New()
	created, err := recipes.CreateRecipe(ctx, &models.Recipe{
		Title:       "Gratin dauphinois",
		Category:    models.CategoryPlat,
		Description: "Avec de la crème.",
		ImageURL:    "https://example.com/gratin.png",
		UserID:      userID,
	})
	require.NoError(t, err)

	updated, err := recipes.UpdateRecipe(ctx, created.ID, &models.Recipe{
		Title:    "Gratin dauphinois maison",
		Category: models.CategoryPlat,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, userID, updated.UserID, "ownership survives the replace")
	assert.Equal(t, "Gratin dauphinois maison", updated.Title)
	assert.Empty(t, updated.Description, "fields not in the payload are cleared, not kept")
	assert.Empty(t, updated.ImageURL)
}

func TestDeleteRecipeMissing(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)

	err := recipes.DeleteRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetRecipesByIDsKeepsOrderAndSkipsUnknown(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	ctx := context.Background()

	a := makeRecipe(t, db, "A", nil)
	b := makeRecipe(t, db, "B", nil)

	got, err := recipes.GetRecipesByIDs(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

func TestListRecipesFilters(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	ctx := context.Background()

	_, err := recipes.CreateRecipe(ctx, &models.Recipe{Title: "Tarte aux pommes", Category: models.CategoryDessert})
	require.NoError(t, err)
	_, err = recipes.CreateRecipe(ctx, &models.Recipe{Title: "Tarte à l'oignon", Category: models.CategoryPlat})
	require.NoError(t, err)

	desserts, err := recipes.ListRecipes(ctx, models.CategoryDessert, "")
	require.NoError(t, err)
	require.Len(t, desserts, 1)
	assert.Equal(t, "Tarte aux pommes", desserts[0].Title)

	tartes, err := recipes.ListRecipes(ctx, "", "tarte")
	require.NoError(t, err)
	assert.Len(t, tartes, 2)

	none, err := recipes.ListRecipes(ctx, "", "couscous")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummarizeAll(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)

	makeRecipe(t, db, "Ratatouille", nil)

	summaries, err := recipes.SummarizeAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Ratatouille", summaries[0].Title)
	assert.NotEqual(t, uuid.Nil, summaries[0].ID)
}
