package service

import (
	"context"
	"fmt"

	"go-gin-event-gallery/internal/database"
	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/repository"
	apperrors "go-gin-event-gallery/pkg/app_errors"
	"go-gin-event-gallery/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventService interface {
	Create(ctx context.Context, in model.EventInput) (*model.EventWithImages, error)
	// Update applies the supplied fields only; an input with no fields returns the event unchanged
	Update(ctx context.Context, id int, in model.EventInput) (*model.EventWithImages, error)
	// Delete removes the event, its image records and, once committed, their files
	Delete(ctx context.Context, id int) error
}

type FileCleaner interface {
	RemoveImageFiles(filenames []string) error
}

type EventServiceImpl struct {
	tx        database.Transactor
	repo      repository.EventRepository
	imageRepo repository.ImageRepository
	typeRepo  repository.EventTypeRepository
	files     FileCleaner
}

func NewEventService(
	tx database.Transactor,
	repo repository.EventRepository,
	imageRepo repository.ImageRepository,
	typeRepo repository.EventTypeRepository,
	files FileCleaner,
) EventService {
	return &EventServiceImpl{
		tx:        tx,
		repo:      repo,
		imageRepo: imageRepo,
		typeRepo:  typeRepo,
		files:     files,
	}
}

func (s *EventServiceImpl) Create(ctx context.Context, in model.EventInput) (*model.EventWithImages, error) {
	event, err := validateNewEvent(in)
	if err != nil {
		return nil, err
	}

	if err := s.checkType(ctx, event.TypeID); err != nil {
		return nil, err
	}

	var created *model.Event
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		created, err = s.repo.Create(ctx, tx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.EventWithImages{Event: *created, Images: []*model.Image{}}, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id int, in model.EventInput) (*model.EventWithImages, error) {
	var updated *model.Event
	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		exists, err := s.repo.Exists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrEventNotFound
		}

		if in.TypeID != nil {
			if err := s.checkType(ctx, *in.TypeID); err != nil {
				return err
			}
		}

		updated, err = s.repo.Update(ctx, tx, id, model.UpdateEventParams(in))
		return err
	})
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.EventWithImages{Event: *updated, Images: images}, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int) error {
	var filenames []string
	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		var err error
		filenames, err = s.imageRepo.ListFilenamesByEventID(ctx, tx, id)
		if err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrEventNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(filenames) > 0 && s.files != nil {
		if err := s.files.RemoveImageFiles(filenames); err != nil {
			logger.WithComponent("service").Warn("remove image files failed",
				zap.Int("event_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *EventServiceImpl) checkType(ctx context.Context, typeID int) error {
	ok, err := s.typeRepo.Exists(ctx, typeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("invalid event_type_id: %d", typeID), "event_type_id")
	}
	return nil
}
