package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/pkg/helpers"
	"github.com/ngocweb/membership-api/pkg/response"
)

// AttachmentHandler serves gated downloads and published-post reads.
type AttachmentHandler struct {
	Svc    *application.ContentService
	Logger *logrus.Logger
	Debug  bool
}

func NewAttachmentHandler(svc *application.ContentService, logger *logrus.Logger, debug bool) *AttachmentHandler {
	return &AttachmentHandler{Svc: svc, Logger: logger, Debug: debug}
}

// Download GET /api/attachments/:id/download?dl=1
// Redirects to a short-lived signed URL; ?dl=1 forces an attachment
// disposition instead of inline.
func (h *AttachmentHandler) Download(c *gin.Context) {
	token, _ := c.Cookie(helpers.SessionCookieName)
	inline := c.Query("dl") != "1"
	url, err := h.Svc.DownloadURL(c.Request.Context(), token, c.Param("id"), inline)
	if err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GetPost GET /api/posts/:id
func (h *AttachmentHandler) GetPost(c *gin.Context) {
	view, err := h.Svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, h.Debug, err)
		return
	}
	response.Success(c, http.StatusOK, view, "post", nil)
}
