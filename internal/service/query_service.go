package service

import (
	"context"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/repository"
)

type QueryService interface {
	GetEventWithImages(ctx context.Context, id int) (*model.EventWithImages, error)
	ListEventsWithImages(ctx context.Context, filter model.EventFilter) ([]*model.EventWithImages, error)
}

type QueryServiceImpl struct {
	repo      repository.EventRepository
	imageRepo repository.ImageRepository
}

func NewQueryService(repo repository.EventRepository, imageRepo repository.ImageRepository) QueryService {
	return &QueryServiceImpl{repo: repo, imageRepo: imageRepo}
}

func (s *QueryServiceImpl) GetEventWithImages(ctx context.Context, id int) (*model.EventWithImages, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.EventWithImages{Event: *event, Images: images}, nil
}

// ListEventsWithImages loads images with one query per event.
func (s *QueryServiceImpl) ListEventsWithImages(ctx context.Context, filter model.EventFilter) ([]*model.EventWithImages, error) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*model.EventWithImages, 0, len(events))
	for _, event := range events {
		images, err := s.imageRepo.ListByEventID(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &model.EventWithImages{Event: *event, Images: images})
	}
	return out, nil
}
