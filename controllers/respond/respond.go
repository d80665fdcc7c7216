// Package respond writes service errors as JSON responses.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/models"
)

// Status maps an error from the service layer to an HTTP status code.
func Status(err error) int {
	var (
		nf *models.NotFoundError
		ve *models.ValidationError
		pe *models.PermissionError
		se *models.RemoteStoreError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		return http.StatusForbidden
	case errors.As(err, &se):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error writes err with its mapped status. Backend failures are not echoed
// to the client.
func Error(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		msg = ve.Message
	}
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": msg})
}

// UserID returns the authenticated user set by the token middleware.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// Unauthorized aborts with 401.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
