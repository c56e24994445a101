package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/pkg/helpers"
	"github.com/ngocweb/membership-api/pkg/response"
	"github.com/ngocweb/membership-api/pkg/validation"
)

// AdminHandler serves the privileged endpoints.
type AdminHandler struct {
	Svc     *application.AdminService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
	Debug   bool
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger, cookies *helpers.CookieManager, debug bool) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger, Cookies: cookies, Debug: debug}
}

type changeRoleRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Role  string `json:"role" binding:"required,role"`
}

// ChangeRole PATCH /api/admin/users/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	token, _ := c.Cookie(helpers.SessionCookieName)
	if token == "" {
		respondError(c, h.Logger, h.Debug, application.ErrNotLoggedIn)
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, application.ErrInvalidInput.Message, validation.ToDetails(err))
		return
	}

	if err := h.Svc.ChangeRole(c.Request.Context(), token, req.Email, req.Role); err != nil {
		// A dead or inactive session also loses its cookie.
		if errors.Is(err, application.ErrSessionInvalid) || errors.Is(err, application.ErrAccountInactive) {
			h.Cookies.ClearSession(c)
		}
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search GET /api/admin/users/search?q=...&size=...
func (h *AdminHandler) Search(c *gin.Context) {
	token, _ := c.Cookie(helpers.SessionCookieName)
	size, _ := strconv.Atoi(c.Query("size"))
	res, err := h.Svc.SearchUsers(c.Request.Context(), token, c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	response.Success(c, http.StatusOK, res, "users", map[string]any{"count": len(res)})
}
