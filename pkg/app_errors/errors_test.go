package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "go-gin-event-gallery/pkg/app_errors"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("MissingFields names every field", func(t *testing.T) {
		err := apperrors.MissingFields("title", "location")

		assert.Equal(t, "missing required field: title, location", err.Error())
		assert.Equal(t, []string{"title", "location"}, err.Fields)
	})

	t.Run("Matches ErrInvalidInput through wrapping", func(t *testing.T) {
		err := fmt.Errorf("create event: %w", apperrors.NewValidationError("invalid event_type_id", "event_type_id"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.NotErrorIs(t, err, apperrors.ErrEventNotFound)

		var ve *apperrors.ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"event_type_id"}, ve.Fields)
	})
}
