package database

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/models"
)

// With no DB_HOST the connection falls back to SQLite, the single-user
// deployment mode.
func TestNewFallsBackToSQLite(t *testing.T) {
	cfg := &config.Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())

	require.NoError(t, Migrate(db))

	user := models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(&user).Error)

	var count int64
	db.Model(&models.PlannedMeal{}).Count(&count)
	assert.Zero(t, count)
}
