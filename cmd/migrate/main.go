package main

import (
	"log"

	"github.com/atable/backend/config"
	"github.com/atable/backend/internal/database"
)

// Applies the schema to the configured database and exits. The API server
// migrates on boot as well; this exists for deploy pipelines that migrate
// before rolling the new version.
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

	log.Println("Migrations applied")
}
