package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/library"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondFailure maps an orchestrator error to a status code. Catalog
// failures become 502 carrying the user facing message from the snapshot;
// the underlying error is logged but not exposed.
func respondFailure(c *gin.Context, logger *zap.Logger, state SnapshotReader, err error, op string) {
	switch {
	case errors.Is(err, entities.ErrInvalidBook):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrNotConfirmed):
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{
			Error: "deletion must be confirmed",
			Code:  "confirmation_required",
		})
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, library.ErrUnknownGenre):
		respondBadRequest(c, err.Error())
	default:
		logger.Debug("request failed", zap.String("op", op), zap.Error(err))
		message := state.Snapshot().Error
		if message == "" {
			message = "catalog request failed"
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: message, Code: "catalog_unavailable"})
	}
}

// --- Success Response Helpers ---

// respondSnapshot sends the current view state.
func respondSnapshot(c *gin.Context, status int, state SnapshotReader) {
	c.JSON(status, state.Snapshot())
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts a book ID from URL parameters. Numeric IDs are
// normalised so that "05" and "5" address the same book.
// Responds with a 400 error and returns "", false when the ID is blank.
func parseIDParam(c *gin.Context, paramName string) (entities.BookID, bool) {
	raw := strings.TrimSpace(c.Param(paramName))
	if raw == "" {
		respondBadRequest(c, "invalid "+paramName)
		return "", false
	}
	return entities.NormalizeBookID(raw), true
}

// bindJSON binds the request body or responds with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return false
	}
	return true
}
