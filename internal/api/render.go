package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// viewer is the signed-in user shown in the page header
type viewer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func currentViewer(c *gin.Context) *viewer {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return &viewer{ID: id, Name: middleware.CurrentUsername(c)}
}

// render writes view as the named template or as JSON, whichever the client accepts
func render(c *gin.Context, status int, name string, view interface{}) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		HTMLData: gin.H{"User": currentViewer(c), "View": view},
		JSONData: view,
	})
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

type errorView struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// renderError writes an error page, or the JSON error envelope
func renderError(c *gin.Context, status int, code, message string) {
	if middleware.WantsJSON(c) {
		c.JSON(status, middleware.ErrorResponse{Error: middleware.ErrorDetail{Message: message, Code: code}})
		return
	}
	c.HTML(status, "error.html", gin.H{
		"User": currentViewer(c),
		"View": errorView{Status: status, Message: message},
	})
}

// handleError maps service errors onto responses. Anything unexpected is
// logged and hidden behind a generic 500.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidPage):
		renderError(c, http.StatusNotFound, "not_found", "The page you requested was not found.")
	case errors.Is(err, service.ErrPermissionDenied):
		renderError(c, http.StatusForbidden, "permission_denied", "You do not have permission to do that.")
	default:
		_ = c.Error(err)
		log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		renderError(c, http.StatusInternalServerError, "internal_error", "Something went wrong. Please try again later.")
	}
}

func renderBadRequest(c *gin.Context, message string) {
	renderError(c, http.StatusBadRequest, "bad_request", message)
}

// pathID parses the :id parameter. Malformed ids are treated as not found.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		renderError(c, http.StatusNotFound, "not_found", "The page you requested was not found.")
		return uuid.Nil, false
	}
	return id, true
}

// requester is the signed-in user or uuid.Nil
func requester(c *gin.Context) uuid.UUID {
	id, _ := middleware.CurrentUser(c)
	return id
}
