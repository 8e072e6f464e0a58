package httptransport

import (
	"github.com/gin-gonic/gin"

	"blog-server-go/internal/platform/errors"
	"blog-server-go/internal/platform/logging"
)

// respondError maps a domain error to its HTTP status and a client-safe
// message. The full cause is logged server-side only.
func respondError(c *gin.Context, logger *logging.Logger, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		logger.ErrorWith("request failed", map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"cause":  err.Error(),
		})
	}
	c.JSON(status, gin.H{"message": errors.Message(err)})
}
