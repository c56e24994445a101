package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/config"
	"github.com/ngocweb/membership-api/internal/apperr"
	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/pkg/response"
	"github.com/ngocweb/membership-api/pkg/validation"
)

// AuthHandler serves registration and email verification.
type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrMissingFields.Message, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, h.Cfg.DebugErrors, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID},
		"仮登録が完了しました。確認メールをご確認ください。", nil)
}

// VerifyEmail GET /api/verify-email?token=...
// Browser-facing: plain text errors, redirect on success.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if _, err := h.Svc.VerifyEmail(c.Request.Context(), token); err != nil {
		status := apperr.Status(err)
		msg := apperr.MessageOf(err)
		if msg == "" {
			msg = application.ErrServer.Message
		}
		if status == http.StatusInternalServerError && h.Logger != nil {
			h.Logger.WithError(err).Error("email verification failed")
		}
		c.String(status, msg)
		return
	}
	c.Redirect(http.StatusFound, h.Cfg.VerifiedRedirectURL)
}
