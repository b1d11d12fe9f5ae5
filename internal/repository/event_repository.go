package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-event-gallery/internal/model"
	apperrors "go-gin-event-gallery/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	FindByID(ctx context.Context, id int) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, tx pgx.Tx, id int) (bool, error)
	Exists(ctx context.Context, tx pgx.Tx, id int) (bool, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, description, type_id, start_date, location, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.TypeID,
		&event.StartDate,
		&event.Location,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (title, description, type_id, start_date, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	created, err := scanEvent(tx.QueryRow(ctx, query,
		event.Title, event.Description, event.TypeID, event.StartDate, event.Location, time.Now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event %d: %w", id, err)
	}
	return event, nil
}

// List returns events newest first. Events created in the same instant keep identity order, newest id first.
func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	where := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Keyword != "" {
		where = append(where, fmt.Sprintf(
			"(strpos(lower(title), lower($%d)) > 0 OR strpos(lower(description), lower($%d)) > 0)", argPos, argPos))
		args = append(args, filter.Keyword)
		argPos++
	}

	if filter.TypeID != nil {
		where = append(where, fmt.Sprintf("type_id = $%d", argPos))
		args = append(args, *filter.TypeID)
		argPos++
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// Update applies only the non-nil params. With nothing to apply the current row is returned unchanged
// and updated_at is left alone.
func (r *EventRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error) {
	if params.IsEmpty() {
		event, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrEventNotFound
			}
			return nil, fmt.Errorf("find event %d: %w", id, err)
		}
		return event, nil
	}

	sets := []string{}
	args := []interface{}{}
	argPos := 1

	columns := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"title", params.Title, params.Title != nil},
		{"description", params.Description, params.Description != nil},
		{"type_id", params.TypeID, params.TypeID != nil},
		{"start_date", params.StartDate, params.StartDate != nil},
		{"location", params.Location, params.Location != nil},
	}
	for _, col := range columns {
		if !col.set {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col.name, argPos))
		args = append(args, col.value)
		argPos++
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}

	return event, nil
}

// Delete removes the event; its images go with it through ON DELETE CASCADE.
func (r *EventRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	result, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event %d: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *EventRepositoryImpl) Exists(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event %d: %w", id, err)
	}
	return exists, nil
}
