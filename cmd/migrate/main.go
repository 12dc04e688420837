package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/pkg/logger"
	"github.com/light-bringer/adpricing-service/internal/pkg/migrate"
)

var (
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "pricing-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
	logLevel   = flag.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level")
)

func main() {
	flag.Parse()

	zl, err := logger.New(*logLevel, false)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Check if using emulator
	emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST")
	if emulatorHost != "" {
		zl.Info("Using Spanner emulator", zap.String("host", emulatorHost))
	}

	target := migrate.Target{Project: *projectID, Instance: *instanceID, Database: *databaseID}
	runner := migrate.NewRunner(target, emulatorHost != "", zl)
	if err := runner.Run(context.Background(), *migrateDir); err != nil {
		zl.Fatal("Migration failed", zap.String("database", target.Path()), zap.Error(err))
	}

	zl.Info("Migrations completed successfully", zap.String("database", target.Path()))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
