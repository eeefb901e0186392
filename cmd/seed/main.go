package main

import (
	"log"
	"os"

	"github.com/shopboard/shopboard/config"
	"github.com/shopboard/shopboard/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := models.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := models.Close(db); err != nil {
			log.Printf("WARNING: %v", err)
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	if _, err := models.Seed(db, os.Stdout); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
