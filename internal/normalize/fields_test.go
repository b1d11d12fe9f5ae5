package normalize_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/normalize"
	apperrors "go-gin-event-gallery/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput(t *testing.T) {
	t.Run("Camel case keys", func(t *testing.T) {
		got := normalize.Input(map[string]any{
			"title":       "A",
			"description": "d",
			"typeId":      float64(1),
			"startDate":   "2025-01-01T00:00:00",
			"location":    "L",
		})

		assert.Equal(t, map[string]any{
			"title":         "A",
			"description":   "d",
			"event_type_id": float64(1),
			"start_date":    "2025-01-01T00:00:00",
			"location":      "L",
		}, got)
	})

	t.Run("Underscore keys", func(t *testing.T) {
		got := normalize.Input(map[string]any{
			"event_type_id": float64(2),
			"start_date":    "2025-02-01T10:00:00",
		})

		assert.Equal(t, float64(2), got[normalize.EventTypeID])
		assert.Equal(t, "2025-02-01T10:00:00", got[normalize.StartDate])
	})

	t.Run("Camel case wins per attribute", func(t *testing.T) {
		got := normalize.Input(map[string]any{
			"typeId":        float64(3),
			"event_type_id": float64(4),
			"start_date":    "snake",
		})

		assert.Equal(t, float64(3), got[normalize.EventTypeID])
		assert.Equal(t, "snake", got[normalize.StartDate])
	})

	t.Run("Unknown keys are dropped", func(t *testing.T) {
		got := normalize.Input(map[string]any{"title": "A", "color": "red"})

		assert.Equal(t, map[string]any{"title": "A"}, got)
	})
}

func TestOutput(t *testing.T) {
	t.Run("Persisted and camel names become canonical", func(t *testing.T) {
		got := normalize.Output(map[string]any{
			"id":        1,
			"type_id":   2,
			"startDate": "2025-01-01",
		})

		assert.Equal(t, map[string]any{
			"id":            1,
			"event_type_id": 2,
			"start_date":    "2025-01-01",
		}, got)
	})

	t.Run("Canonical key already present is kept", func(t *testing.T) {
		got := normalize.Output(map[string]any{"event_type_id": 5, "typeId": 6})

		assert.Equal(t, map[string]any{"event_type_id": 5}, got)
	})
}

func TestEventInput(t *testing.T) {
	t.Run("Only truthy fields are kept", func(t *testing.T) {
		in, applied, err := normalize.EventInput(map[string]any{
			"title":       "X",
			"description": "",
			"typeId":      float64(0),
			"location":    nil,
		})

		require.NoError(t, err)
		require.NotNil(t, in.Title)
		assert.Equal(t, "X", *in.Title)
		assert.Nil(t, in.Description)
		assert.Nil(t, in.TypeID)
		assert.Nil(t, in.Location)
		assert.Equal(t, []string{"title"}, applied)
	})

	t.Run("Empty title is treated as absent", func(t *testing.T) {
		in, applied, err := normalize.EventInput(map[string]any{"title": ""})

		require.NoError(t, err)
		assert.True(t, in.IsEmpty())
		assert.Empty(t, applied)
	})

	t.Run("Type id accepts json numbers and numeric strings", func(t *testing.T) {
		in, _, err := normalize.EventInput(map[string]any{"event_type_id": json.Number("3")})
		require.NoError(t, err)
		require.NotNil(t, in.TypeID)
		assert.Equal(t, 3, *in.TypeID)

		in, _, err = normalize.EventInput(map[string]any{"typeId": "4"})
		require.NoError(t, err)
		require.NotNil(t, in.TypeID)
		assert.Equal(t, 4, *in.TypeID)
	})

	t.Run("Non integer type id is a validation error", func(t *testing.T) {
		_, _, err := normalize.EventInput(map[string]any{"typeId": 1.5})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Type id beyond the integer column range is a validation error", func(t *testing.T) {
		for _, v := range []any{json.Number("3000000000"), float64(3000000000), "-3000000000", json.Number("99999999999999999999")} {
			_, _, err := normalize.EventInput(map[string]any{"typeId": v})

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve, "%v", v)
			assert.Equal(t, []string{"event_type_id"}, ve.Fields)
		}

		in, _, err := normalize.EventInput(map[string]any{"typeId": json.Number("2147483647")})
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt32, *in.TypeID)
	})

	t.Run("Non string title is a validation error", func(t *testing.T) {
		_, _, err := normalize.EventInput(map[string]any{"title": float64(7)})

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"title"}, ve.Fields)
	})
}

func TestQuery(t *testing.T) {
	values := map[string]string{"typeId": "2", "q": "ignored"}
	got := normalize.Query(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})

	assert.Equal(t, map[string]any{"event_type_id": "2"}, got)
}

func TestEventRecord(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	record := normalize.EventRecord(&model.EventWithImages{
		Event: model.Event{ID: 7, Title: "A", TypeID: 1, CreatedAt: created},
		Images: []*model.Image{
			{ID: 3, EventID: 7, Filename: "abc.png"},
		},
	})

	assert.Equal(t, 1, record["event_type_id"])
	assert.NotContains(t, record, "type_id")
	assert.Equal(t, created, record["created_at"])

	images, ok := record["images"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, images, 1)
	assert.Equal(t, "/uploads/abc.png", images[0]["url"])
	assert.Equal(t, 7, images[0]["event_id"])
}

func TestEventRecord_NoImages(t *testing.T) {
	record := normalize.EventRecord(&model.EventWithImages{Event: model.Event{ID: 1}})

	images, ok := record["images"].([]map[string]any)
	require.True(t, ok)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}
