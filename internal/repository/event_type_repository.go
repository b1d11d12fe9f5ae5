package repository

import (
	"context"
	"fmt"

	"go-gin-event-gallery/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EventTypeRepository interface {
	List(ctx context.Context) ([]*model.EventType, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type EventTypeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventTypeRepository(pool *pgxpool.Pool) EventTypeRepository {
	return &EventTypeRepositoryImpl{pool: pool}
}

func (r *EventTypeRepositoryImpl) List(ctx context.Context) ([]*model.EventType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(description, '') FROM event_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	defer rows.Close()

	types := make([]*model.EventType, 0)
	for rows.Next() {
		var et model.EventType
		if err := rows.Scan(&et.ID, &et.Name, &et.Description); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		types = append(types, &et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	return types, nil
}

func (r *EventTypeRepositoryImpl) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event_types WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event type %d: %w", id, err)
	}
	return exists, nil
}
