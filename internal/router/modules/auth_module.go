package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngocweb/membership-api/internal/container"
	handlers "github.com/ngocweb/membership-api/internal/interface/http"
	"github.com/ngocweb/membership-api/internal/interface/middleware"
)

// AuthModule wires registration and email verification.
// Public: POST /api/register, GET /api/verify-email
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/verify-email", verifyLimiter, m.Handler.VerifyEmail)
}
