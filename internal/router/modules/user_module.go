package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngocweb/membership-api/internal/container"
	handlers "github.com/ngocweb/membership-api/internal/interface/http"
	"github.com/ngocweb/membership-api/internal/interface/middleware"
)

// UserModule wires login, logout, and session resolution.
// Public: POST /api/login
// Session-gated (the handlers resolve the cookie themselves): POST
// /api/logout, GET /api/me
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	sessionLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyBySession(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", sessionLimiter, m.Handler.Logout)
	rg.GET("/me", sessionLimiter, m.Handler.Me)
}
