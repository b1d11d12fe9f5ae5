package service

import (
	"context"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/repository"
)

type EventTypeService interface {
	List(ctx context.Context) ([]*model.EventType, error)
}

type EventTypeServiceImpl struct {
	repo repository.EventTypeRepository
}

func NewEventTypeService(repo repository.EventTypeRepository) EventTypeService {
	return &EventTypeServiceImpl{repo: repo}
}

func (s *EventTypeServiceImpl) List(ctx context.Context) ([]*model.EventType, error) {
	return s.repo.List(ctx)
}
