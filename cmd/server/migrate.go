package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("migrate needs DB_DRIVER=mysql or postgres")
	}
	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info("schema migrated", slog.String("driver", cfg.DBDriver), slog.String("database", cfg.DBName))
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("seed needs DB_DRIVER=mysql or postgres")
	}
	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := database.SeedTables(cmd.Context(), repository.NewSQLStore(db))
	if err != nil {
		return err
	}
	logger.Info("tables seeded", slog.Int("created", n))
	return nil
}
