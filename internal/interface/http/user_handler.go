package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/pkg/helpers"
	"github.com/ngocweb/membership-api/pkg/response"
	"github.com/ngocweb/membership-api/pkg/validation"
)

// UserHandler serves login, logout, and session resolution.
type UserHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
	Debug   bool
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.CookieManager, debug bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies, Debug: debug}
}

// No format check on the email: a malformed address must answer the same
// 401 as an unknown one, so only presence is validated here.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrMissingCredentials.Message, validation.ToDetails(err))
		return
	}
	u, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}, "ログインしました", map[string]any{"expires_at": sess.ExpiresAt})
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(helpers.SessionCookieName)
	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	h.Cookies.ClearSession(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "ログアウトしました", nil)
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	token, _ := c.Cookie(helpers.SessionCookieName)
	u, err := h.Svc.Me(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}, "profile", nil)
}
