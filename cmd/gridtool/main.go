package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/adapters/repositories"
	"store-route-optimizer/internal/config"
	"store-route-optimizer/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pg.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/layouts.json")
	if err := initAndSeed(pg, seedPath); err != nil {
		logrus.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	logrus.Info("Schema ready.")

	logrus.Info("Seeding layouts...")
	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("seed layouts: %w", err)
	}
	logrus.Info("Seeding complete.")

	return nil
}
