package main

import (
	"context"
	"fmt"

	"go-gin-event-gallery/config"
	"go-gin-event-gallery/internal/database"
	"go-gin-event-gallery/pkg/logger"

	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the schema and seed event types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitDB(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.Server.LogLevel)

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.WithComponent("server").Info("Database initialized")
	return nil
}
