package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/application/formscript"
	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/application/service"
	"github.com/homieapp/homie/internal/dashboard"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	records    service.RecordService
	intake     service.IntakeService
	forms      FormSessions
	dashboards dashboard.Source
	renderer   *dashboard.Renderer
	logger     Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger Logger) *Handlers {
	return &Handlers{
		records:    deps.Records,
		intake:     deps.Intake,
		forms:      deps.Forms,
		dashboards: deps.Dashboard,
		renderer:   deps.Renderer,
		logger:     logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// statusFor maps application errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, port.ErrValidation),
		errors.Is(err, port.ErrUnknownKind),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrInvalidFieldValue),
		errors.Is(err, formscript.ErrReadOnlyField),
		errors.Is(err, formscript.ErrHiddenField),
		errors.Is(err, formscript.ErrNoItems),
		errors.Is(err, formscript.ErrNoScript),
		errors.Is(err, dashboard.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrRecordNotFound),
		errors.Is(err, formscript.ErrSessionNotFound),
		errors.Is(err, formscript.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, formscript.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error response. Internal errors are logged and their
// details withheld.
func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	resp := Response{Success: false, Error: err.Error()}

	var verr *port.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "path", c.Request.URL.Path, "error", err)
		resp.Error = msg
	}
	c.JSON(status, resp)
}

// kindParam resolves the :kind URL segment
func kindParam(c *gin.Context) (entity.Kind, bool) {
	kind, ok := entity.KindBySlug(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "unknown record kind: " + c.Param("kind"),
		})
	}
	return kind, ok
}
