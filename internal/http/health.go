package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/library"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports database and catalog reachability.
type HealthController struct {
	db      *database.Database
	state   SnapshotReader
	backend string
	version string
}

// NewHealthController creates a HealthController.
func NewHealthController(db *database.Database, state SnapshotReader, backend, version string) *HealthController {
	return &HealthController{
		db:      db,
		state:   state,
		backend: backend,
		version: version,
	}
}

// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.backend != "" {
		checks["reading_list"] = h.backend
	}

	// The catalog is reported but never makes the service unhealthy
	if h.state != nil {
		switch h.state.Snapshot().Status {
		case library.StatusError:
			checks["catalog"] = "last fetch failed"
		case library.StatusIdle:
			checks["catalog"] = "not fetched"
		default:
			checks["catalog"] = "ok"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
