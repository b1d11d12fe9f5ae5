package mocks

import (
	"context"

	"go-gin-event-gallery/internal/model"

	"github.com/stretchr/testify/mock"
)

type QueryServiceMock struct {
	mock.Mock
}

func NewQueryServiceMock() *QueryServiceMock {
	return &QueryServiceMock{}
}

func (m *QueryServiceMock) GetEventWithImages(ctx context.Context, id int) (*model.EventWithImages, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventWithImages), args.Error(1)
}

func (m *QueryServiceMock) ListEventsWithImages(ctx context.Context, filter model.EventFilter) ([]*model.EventWithImages, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EventWithImages), args.Error(1)
}

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) Create(ctx context.Context, in model.EventInput) (*model.EventWithImages, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventWithImages), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, id int, in model.EventInput) (*model.EventWithImages, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventWithImages), args.Error(1)
}

func (m *EventServiceMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ImageServiceMock struct {
	mock.Mock
}

func NewImageServiceMock() *ImageServiceMock {
	return &ImageServiceMock{}
}

func (m *ImageServiceMock) AddImages(ctx context.Context, eventID int, uploads []model.ImageUpload) ([]*model.Image, error) {
	args := m.Called(ctx, eventID, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Image), args.Error(1)
}

func (m *ImageServiceMock) ListForEvent(ctx context.Context, eventID int) ([]*model.Image, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Image), args.Error(1)
}

type EventTypeServiceMock struct {
	mock.Mock
}

func NewEventTypeServiceMock() *EventTypeServiceMock {
	return &EventTypeServiceMock{}
}

func (m *EventTypeServiceMock) List(ctx context.Context) ([]*model.EventType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EventType), args.Error(1)
}
