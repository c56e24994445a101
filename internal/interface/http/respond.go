package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/apperr"
	"github.com/ngocweb/membership-api/pkg/response"
)

// respondError maps a tagged failure to its HTTP status and terse message.
// Internal causes are logged server-side and only echoed to the client when
// the debug flag is set.
func respondError(c *gin.Context, logger *logrus.Logger, debug bool, err error) {
	status := apperr.Status(err)
	msg := apperr.MessageOf(err)
	if msg == "" {
		msg = "サーバーエラーが発生しました"
	}
	var detail interface{}
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		if debug {
			detail = err.Error()
		}
	}
	response.Error[any](c, status, msg, detail)
}
