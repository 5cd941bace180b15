// Package main provides a CLI tool for running database migrations.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/config"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

func main() {
	action := flag.String("action", "up", "Migration action: up, down, version")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := runMigrations(cfg, *action); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func runMigrations(cfg *config.Config, action string) error {
	migrationsPath := "migrations/postgres"

	switch action {
	case "up":
		log.Println("Running migrations...")
		if err := storage.RunMigrations(&cfg.Postgres, migrationsPath); err != nil {
			return err
		}
		log.Println("Migrations completed successfully")

	case "down":
		log.Println("Rolling back migration...")
		if err := storage.RollbackMigrations(&cfg.Postgres, migrationsPath); err != nil {
			return err
		}
		log.Println("Migration rolled back successfully")

	case "version":
		version, dirty, err := storage.MigrationVersion(&cfg.Postgres, migrationsPath)
		if err != nil {
			return err
		}
		log.Printf("Current migration version: %d (dirty: %v)", version, dirty)

	default:
		return fmt.Errorf("unknown action: %s", action)
	}

	return nil
}
