// Package normalize maps the two client key conventions onto one canonical attribute name on the way in,
// and rewrites stored attribute names to the canonical output spelling on the way out.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-gin-event-gallery/internal/model"
	apperrors "go-gin-event-gallery/pkg/app_errors"
)

// Canonical attribute names. These are also the output spelling.
const (
	Title       = "title"
	Description = "description"
	EventTypeID = "event_type_id"
	StartDate   = "start_date"
	Location    = "location"
)

type alias struct {
	canonical string
	keys      []string // checked in order, camel-case spelling first
}

var inputAliases = []alias{
	{Title, []string{"title"}},
	{Description, []string{"description"}},
	{EventTypeID, []string{"typeId", "eventTypeId", "event_type_id", "type_id"}},
	{StartDate, []string{"startDate", "start_date"}},
	{Location, []string{"location"}},
}

var outputNames = map[string]string{
	"type_id":      EventTypeID,
	"typeId":       EventTypeID,
	"eventTypeId":  EventTypeID,
	"startDate":    StartDate,
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"eventId":      "event_id",
	"originalName": "original_name",
	"filePath":     "file_path",
	"fileSize":     "file_size",
	"uploadedAt":   "uploaded_at",
}

// Input returns a map keyed by canonical names. For each attribute the first present alias wins,
// independently of the other attributes. Keys that match no alias are dropped.
func Input(raw map[string]any) map[string]any {
	out := make(map[string]any, len(inputAliases))
	for _, a := range inputAliases {
		for _, key := range a.keys {
			if v, ok := raw[key]; ok {
				out[a.canonical] = v
				break
			}
		}
	}
	return out
}

// Output rewrites persisted or camel-case attribute names to the canonical output spelling.
// Keys that already use it are copied unchanged.
func Output(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for key, v := range record {
		if name, ok := outputNames[key]; ok {
			if _, taken := record[name]; taken {
				continue
			}
			key = name
		}
		out[key] = v
	}
	return out
}

// Query reads query-string values through the same alias table.
func Query(get func(key string) (string, bool)) map[string]any {
	raw := make(map[string]any)
	for _, a := range inputAliases {
		for _, key := range a.keys {
			if v, ok := get(key); ok {
				raw[key] = v
			}
		}
	}
	return Input(raw)
}

// fieldRule pairs a canonical attribute with the predicate deciding whether a value counts as supplied.
type fieldRule struct {
	name  string
	apply func(in *model.EventInput, v any) (bool, error)
}

var eventRules = []fieldRule{
	{Title, stringField(func(in *model.EventInput, s *string) { in.Title = s })},
	{Description, stringField(func(in *model.EventInput, s *string) { in.Description = s })},
	{EventTypeID, func(in *model.EventInput, v any) (bool, error) {
		id, ok, err := toInt(v)
		if err != nil || !ok || id == 0 {
			return false, err
		}
		in.TypeID = &id
		return true, nil
	}},
	{StartDate, stringField(func(in *model.EventInput, s *string) { in.StartDate = s })},
	{Location, stringField(func(in *model.EventInput, s *string) { in.Location = s })},
}

func stringField(set func(*model.EventInput, *string)) func(*model.EventInput, any) (bool, error) {
	return func(in *model.EventInput, v any) (bool, error) {
		switch s := v.(type) {
		case nil:
			return false, nil
		case string:
			if s == "" {
				return false, nil
			}
			set(in, &s)
			return true, nil
		default:
			return false, errors.New("must be a string")
		}
	}
}

// EventInput normalizes a raw request body and keeps only the attributes that are present and truthy:
// non-empty strings and non-zero type ids. It also returns the canonical names that were kept, in
// attribute order.
func EventInput(raw map[string]any) (model.EventInput, []string, error) {
	canonical := Input(raw)

	var in model.EventInput
	var applied []string
	for _, rule := range eventRules {
		v, ok := canonical[rule.name]
		if !ok {
			continue
		}
		set, err := rule.apply(&in, v)
		if err != nil {
			return model.EventInput{}, nil, apperrors.NewValidationError(
				fmt.Sprintf("invalid field %s: %v", rule.name, err), rule.name)
		}
		if set {
			applied = append(applied, rule.name)
		}
	}
	return in, applied, nil
}

// ParseTypeID converts a loosely typed id. Empty strings and nil are reported as absent.
func ParseTypeID(v any) (int, bool, error) {
	return toInt(v)
}

var errNotInteger = errors.New("must be an integer")

// toInt accepts only values that fit the INTEGER id columns.
func toInt(v any) (int, bool, error) {
	var n int64
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return 0, false, errNotInteger
		}
		n = int64(x)
	case json.Number:
		i, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return 0, false, errNotInteger
		}
		n = i
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false, errNotInteger
		}
		n = i
	default:
		return 0, false, errNotInteger
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false, errNotInteger
	}
	return int(n), true, nil
}
