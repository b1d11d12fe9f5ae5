package mocks

import (
	"context"

	"go-gin-event-gallery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{}
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id int) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Create(ctx context.Context, tx pgx.Tx, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, tx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, tx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Delete(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *EventRepositoryMock) Exists(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

type ImageRepositoryMock struct {
	mock.Mock
}

func NewImageRepositoryMock() *ImageRepositoryMock {
	return &ImageRepositoryMock{}
}

func (m *ImageRepositoryMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Image, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Image), args.Error(1)
}

func (m *ImageRepositoryMock) Create(ctx context.Context, tx pgx.Tx, image *model.Image) (*model.Image, error) {
	args := m.Called(ctx, tx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *ImageRepositoryMock) ListFilenamesByEventID(ctx context.Context, tx pgx.Tx, eventID int) ([]string, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type EventTypeRepositoryMock struct {
	mock.Mock
}

func NewEventTypeRepositoryMock() *EventTypeRepositoryMock {
	return &EventTypeRepositoryMock{}
}

func (m *EventTypeRepositoryMock) List(ctx context.Context) ([]*model.EventType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EventType), args.Error(1)
}

func (m *EventTypeRepositoryMock) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
