package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atable/backend/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.PlannedEvent{},
		&models.PlannedMeal{},
	)
	require.NoError(t, err)

	return db
}

// makeRecipe persists a minimal recipe for planning and shopping tests
func makeRecipe(t *testing.T, db *gorm.DB, title string, ingredients models.IngredientList) *models.Recipe {
	t.Helper()

	recipe, err := NewRecipeService(db).CreateRecipe(context.Background(), &models.Recipe{
		Title:       title,
		Category:    models.CategoryPlat,
		Servings:    4,
		Ingredients: ingredients,
		Steps:       models.JSONBStringArray{"Cuire."},
	})
	require.NoError(t, err)
	return recipe
}
