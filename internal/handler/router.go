package handler

import (
	"net/http"

	"go-gin-event-gallery/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler.
type RouteRegistrar interface {
	RegisterRoutes(r *gin.Engine)
}

// NewRouter builds the engine with recovery, access logging and envelope answers for unknown
// paths and unsupported methods.
func NewRouter(maxMultipartMemory int64, handlers ...RouteRegistrar) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())
	r.HandleMethodNotAllowed = true
	if maxMultipartMemory > 0 {
		r.MaxMultipartMemory = maxMultipartMemory
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint not found")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	for _, h := range handlers {
		h.RegisterRoutes(r)
	}
	return r
}
