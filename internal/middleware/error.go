package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/logger"
)

// ErrorDetail is the body of a JSON error
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// WantsJSON reports whether the client negotiated JSON over HTML
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// AbortWithError ends the request with an error in the negotiated format.
// HTML clients get a plain text body.
func AbortWithError(c *gin.Context, status int, code, message string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Message: message, Code: code}})
		return
	}
	c.Abort()
	c.String(status, message)
}

// Recovery turns panics into a logged 500 response
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("Panic recovered", "path", c.Request.URL.Path, "error", err)
		AbortWithError(c, http.StatusInternalServerError, "internal_error", "Internal Server Error")
	})
}
