package model

import (
	"io"
	"path"
	"time"
)

type Image struct {
	ID           int       `json:"id" db:"id"`
	EventID      int       `json:"event_id" db:"event_id"`
	OriginalName string    `json:"original_name" db:"original_name"`
	Filename     string    `json:"filename" db:"filename"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// URL is the public path the blob is served from.
func (i *Image) URL() string {
	return path.Join("/uploads", i.Filename)
}

// ImageUpload is one file received from a client. Open may be called once.
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// ThumbnailJob asks the thumbnail worker to render a preview of a stored image.
type ThumbnailJob struct {
	ImageID  int    `json:"image_id"`
	EventID  int    `json:"event_id"`
	Filename string `json:"filename"`
}
