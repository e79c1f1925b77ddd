package database

import (
	"gorm.io/gorm"

	"github.com/atable/backend/internal/models"
)

// Migrate brings the schema up to date for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.PlannedEvent{},
		&models.PlannedMeal{},
	)
}
