package normalize

import (
	"go-gin-event-gallery/internal/model"
)

// EventRecord renders an event with its images using the canonical output names.
func EventRecord(e *model.EventWithImages) map[string]any {
	images := make([]map[string]any, 0, len(e.Images))
	for _, img := range e.Images {
		images = append(images, ImageRecord(img))
	}

	return Output(map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"type_id":     e.TypeID,
		"start_date":  e.StartDate,
		"location":    e.Location,
		"created_at":  e.CreatedAt,
		"updated_at":  e.UpdatedAt,
		"images":      images,
	})
}

func EventRecords(events []*model.EventWithImages) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, EventRecord(e))
	}
	return out
}

func ImageRecord(img *model.Image) map[string]any {
	return Output(map[string]any{
		"id":            img.ID,
		"event_id":      img.EventID,
		"original_name": img.OriginalName,
		"filename":      img.Filename,
		"file_path":     img.FilePath,
		"file_size":     img.FileSize,
		"uploaded_at":   img.UploadedAt,
		"url":           img.URL(),
	})
}

func ImageRecords(images []*model.Image) []map[string]any {
	out := make([]map[string]any, 0, len(images))
	for _, img := range images {
		out = append(out, ImageRecord(img))
	}
	return out
}
