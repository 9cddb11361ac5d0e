package main

import (
	"flag"
	"log"

	"aptitude-trainer/internal/config"
	"aptitude-trainer/internal/database"

	"github.com/joho/godotenv"
)

// Applies pending migrations to the sqlite user store. The API server also
// migrates on startup; this command exists for running migrations ahead of a
// deploy.
func main() {
	migrationsDir := flag.String("dir", "migrations", "directory containing migration files")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewSQLXSQLiteDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully")
}
