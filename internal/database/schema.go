package database

import (
	"context"
	_ "embed"
	"fmt"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables when they are missing and seeds the default event types
// into an empty event_types table. Existing rows are never touched, so it is safe on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return NewTransactor(pool).WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM event_types").Scan(&count); err != nil {
			return fmt.Errorf("count event types: %w", err)
		}
		if count > 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, et := range model.DefaultEventTypes {
			batch.Queue(
				"INSERT INTO event_types (id, name, description) VALUES ($1, $2, $3)",
				et.ID, et.Name, et.Description,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seed event types: %w", err)
		}

		logger.WithComponent("database").Info("seeded default event types", zap.Int("count", len(model.DefaultEventTypes)))
		return nil
	})
}
