package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngocweb/membership-api/internal/container"
	handlers "github.com/ngocweb/membership-api/internal/interface/http"
	"github.com/ngocweb/membership-api/internal/interface/middleware"
)

// AdminModule wires the privileged endpoints. The role-change handler does
// its own session resolution inside the transaction, so no auth middleware
// sits in front of it.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	roleLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyBySession(), nil)
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyBySession(), nil)

	rg.PATCH("/admin/users/role", roleLimiter, m.Handler.ChangeRole)
	rg.GET("/admin/users/search", searchLimiter, m.Handler.Search)
}
