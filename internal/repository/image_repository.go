package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-event-gallery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository has no update: images are only created, and removed with their event.
type ImageRepository interface {
	ListByEventID(ctx context.Context, eventID int) ([]*model.Image, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, image *model.Image) (*model.Image, error)
	ListFilenamesByEventID(ctx context.Context, tx pgx.Tx, eventID int) ([]string, error)
}

type ImageRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &ImageRepositoryImpl{pool: pool}
}

const imageColumns = `id, event_id, original_name, filename, file_path, COALESCE(file_size, 0), uploaded_at`

func scanImage(row pgx.Row) (*model.Image, error) {
	var image model.Image
	err := row.Scan(
		&image.ID,
		&image.EventID,
		&image.OriginalName,
		&image.Filename,
		&image.FilePath,
		&image.FileSize,
		&image.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, image *model.Image) (*model.Image, error) {
	query := `
		INSERT INTO images (event_id, original_name, filename, file_path, file_size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + imageColumns

	uploadedAt := image.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	created, err := scanImage(tx.QueryRow(ctx, query,
		image.EventID, image.OriginalName, image.Filename, image.FilePath, image.FileSize, uploadedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return created, nil
}

func (r *ImageRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE event_id = $1 ORDER BY uploaded_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list images of event %d: %w", eventID, err)
	}
	defer rows.Close()

	images := make([]*model.Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images of event %d: %w", eventID, err)
	}
	return images, nil
}

func (r *ImageRepositoryImpl) ListFilenamesByEventID(ctx context.Context, tx pgx.Tx, eventID int) ([]string, error) {
	rows, err := tx.Query(ctx, `SELECT filename FROM images WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list image files of event %d: %w", eventID, err)
	}
	filenames, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list image files of event %d: %w", eventID, err)
	}
	return filenames, nil
}
