package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngocweb/membership-api/internal/container"
	handlers "github.com/ngocweb/membership-api/internal/interface/http"
	"github.com/ngocweb/membership-api/internal/interface/middleware"
)

// ContentModule wires published-post reads and gated attachment downloads.
type ContentModule struct {
	Handler *handlers.AttachmentHandler
}

func NewContentModule(h *handlers.AttachmentHandler) *ContentModule {
	return &ContentModule{Handler: h}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	postLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	downloadLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyBySession(), nil)

	rg.GET("/posts/:id", postLimiter, m.Handler.GetPost)
	rg.GET("/attachments/:id/download", downloadLimiter, m.Handler.Download)
}
