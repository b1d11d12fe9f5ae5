package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/normalize"
	"go-gin-event-gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadField is the multipart field carrying the image batch.
const UploadField = "images"

type ImageHandler struct {
	images   service.ImageService
	maxBytes int64
}

// NewImageHandler limits upload request bodies to maxBytes; zero means no limit.
func NewImageHandler(images service.ImageService, maxBytes int64) *ImageHandler {
	return &ImageHandler{images: images, maxBytes: maxBytes}
}

func (h *ImageHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/events/:id/images", h.Upload)
}

type UploadImagesResponse struct {
	EventID        int              `json:"event_id"`
	UploadedImages []map[string]any `json:"uploaded_images"`
	TotalImages    int              `json:"total_images"`
}

func (h *ImageHandler) Upload(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	form, err := c.MultipartForm()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		fail(c, http.StatusRequestEntityTooLarge, "Upload too large")
		return
	}
	if err != nil || len(form.File[UploadField]) == 0 {
		fail(c, http.StatusBadRequest, "No files in request")
		return
	}

	files := form.File[UploadField]
	uploads := make([]model.ImageUpload, 0, len(files))
	selected := false
	for _, fh := range files {
		if fh.Filename != "" {
			selected = true
		}
		uploads = append(uploads, toUpload(fh))
	}
	if !selected {
		fail(c, http.StatusBadRequest, "No file selected")
		return
	}

	ctx := c.Request.Context()
	created, err := h.images.AddImages(ctx, eventID, uploads)
	if err != nil {
		handleError(c, err, "UploadImages")
		return
	}
	if len(created) == 0 {
		fail(c, http.StatusBadRequest, "No valid files were uploaded or the event does not exist")
		return
	}

	all, err := h.images.ListForEvent(ctx, eventID)
	if err != nil {
		handleError(c, err, "UploadImages")
		return
	}

	respond(c, http.StatusCreated, UploadImagesResponse{
		EventID:        eventID,
		UploadedImages: normalize.ImageRecords(created),
		TotalImages:    len(all),
	}, fmt.Sprintf("Uploaded %d images", len(created)))
}

func toUpload(fh *multipart.FileHeader) model.ImageUpload {
	return model.ImageUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
