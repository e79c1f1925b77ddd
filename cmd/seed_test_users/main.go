package main

import (
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/database"
	"github.com/atable/backend/internal/models"
)

// Creates well-known accounts for local development and end-to-end tests.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	testUsers := []models.User{
		{Name: "Marie Dupont", Email: "marie@example.com"},
		{Name: "Jean Martin", Email: "jean@example.com"},
	}

	for _, user := range testUsers {
		var count int64
		db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count)
		if count > 0 {
			log.Printf("User %s already exists, skipping", user.Email)
			continue
		}

		user.ID = uuid.New()
		user.PasswordHash = string(hashed)
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", user.Email, err)
			continue
		}
		log.Printf("Created user %s", user.Email)
	}
}
