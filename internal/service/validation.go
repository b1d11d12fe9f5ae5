package service

import (
	"errors"
	"reflect"
	"strings"

	"go-gin-event-gallery/internal/model"
	apperrors "go-gin-event-gallery/pkg/app_errors"

	"github.com/go-playground/validator/v10"
)

// newEvent is the shape a create request must fill completely.
type newEvent struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	TypeID      int    `json:"event_type_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateNewEvent reports every missing field at once, by canonical name.
func validateNewEvent(in model.EventInput) (*model.Event, error) {
	req := newEvent{
		Title:       deref(in.Title),
		Description: deref(in.Description),
		TypeID:      deref(in.TypeID),
		StartDate:   deref(in.StartDate),
		Location:    deref(in.Location),
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		return nil, apperrors.MissingFields(fields...)
	}

	return &model.Event{
		Title:       req.Title,
		Description: req.Description,
		TypeID:      req.TypeID,
		StartDate:   req.StartDate,
		Location:    req.Location,
	}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
