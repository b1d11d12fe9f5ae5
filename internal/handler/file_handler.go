package handler

import (
	"net/http"

	"go-gin-event-gallery/internal/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored image blobs and their thumbnails.
type FileHandler struct {
	uploads    *storage.LocalStore
	thumbnails *storage.LocalStore
}

func NewFileHandler(uploads, thumbnails *storage.LocalStore) *FileHandler {
	return &FileHandler{uploads: uploads, thumbnails: thumbnails}
}

func (h *FileHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/uploads/:filename", h.serve(h.uploads))
	r.GET("/thumbnails/:filename", h.serve(h.thumbnails))
}

func (h *FileHandler) serve(store *storage.LocalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filename")
		path, err := store.Path(name)
		if err != nil || !store.Exists(name) {
			fail(c, http.StatusNotFound, "File not found")
			return
		}
		c.File(path)
	}
}
