package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-gin-event-gallery/internal/database"
	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/queue"
	"go-gin-event-gallery/internal/repository"
	"go-gin-event-gallery/internal/storage"
	apperrors "go-gin-event-gallery/pkg/app_errors"
	"go-gin-event-gallery/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ImageService interface {
	// AddImages stores every acceptable upload for an existing event. A missing event and a batch with
	// no acceptable file both yield an empty result without error.
	AddImages(ctx context.Context, eventID int, uploads []model.ImageUpload) ([]*model.Image, error)
	ListForEvent(ctx context.Context, eventID int) ([]*model.Image, error)
}

type BlobWriter interface {
	Save(name string, r io.Reader) (path string, size int64, err error)
}

type ImageServiceImpl struct {
	tx        database.Transactor
	eventRepo repository.EventRepository
	imageRepo repository.ImageRepository
	blobs     BlobWriter
	jobs      queue.ThumbnailQueue
}

func NewImageService(
	tx database.Transactor,
	eventRepo repository.EventRepository,
	imageRepo repository.ImageRepository,
	blobs BlobWriter,
	jobs queue.ThumbnailQueue,
) ImageService {
	return &ImageServiceImpl{
		tx:        tx,
		eventRepo: eventRepo,
		imageRepo: imageRepo,
		blobs:     blobs,
		jobs:      jobs,
	}
}

// AddImages writes blobs before inserting their rows. Blobs are not removed when the transaction rolls
// back, so a failed batch can leave orphan files behind.
func (s *ImageServiceImpl) AddImages(ctx context.Context, eventID int, uploads []model.ImageUpload) ([]*model.Image, error) {
	created := make([]*model.Image, 0, len(uploads))

	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		exists, err := s.eventRepo.Exists(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		for _, upload := range uploads {
			if upload.Filename == "" {
				continue
			}
			ext, ok := storage.Extension(upload.Filename)
			if !ok {
				continue
			}

			name := storage.GenerateFilename(ext)
			path, size, err := s.saveBlob(name, upload)
			if err != nil {
				return err
			}

			image, err := s.imageRepo.Create(ctx, tx, &model.Image{
				EventID:      eventID,
				OriginalName: upload.Filename,
				Filename:     name,
				FilePath:     path,
				FileSize:     size,
				UploadedAt:   time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			created = append(created, image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueThumbnails(ctx, created)
	return created, nil
}

func (s *ImageServiceImpl) ListForEvent(ctx context.Context, eventID int) ([]*model.Image, error) {
	return s.imageRepo.ListByEventID(ctx, eventID)
}

func (s *ImageServiceImpl) saveBlob(name string, upload model.ImageUpload) (string, int64, error) {
	src, err := upload.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%w: open upload %q: %v", apperrors.ErrStorage, upload.Filename, err)
	}
	defer src.Close()

	path, size, err := s.blobs.Save(name, src)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return path, size, nil
}

func (s *ImageServiceImpl) enqueueThumbnails(ctx context.Context, images []*model.Image) {
	if s.jobs == nil {
		return
	}
	for _, image := range images {
		job := &model.ThumbnailJob{ImageID: image.ID, EventID: image.EventID, Filename: image.Filename}
		if err := s.jobs.PublishJob(ctx, job); err != nil {
			logger.WithComponent("service").Warn("enqueue thumbnail failed",
				zap.Int("image_id", image.ID), zap.Error(err))
		}
	}
}
