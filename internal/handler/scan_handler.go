package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuekit/gate-discovery-go/internal/engine"
	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/pkg/response"
)

// ScanHandler feeds HTTP-delivered scan events into the engine
type ScanHandler struct {
	engine *engine.Engine
}

// NewScanHandler creates a new scan handler
func NewScanHandler(e *engine.Engine) *ScanHandler {
	return &ScanHandler{engine: e}
}

// IngestScan handles POST /api/v1/events/:eventId/scans. The payload uses
// the same JSON schema as the queue sources; the event ID comes from the
// path and overrides whatever the body carries.
func (h *ScanHandler) IngestScan(c *gin.Context) {
	var ev models.ScanEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.BadRequest(c, "Invalid scan payload: "+err.Error())
		return
	}
	ev.EventID = c.Param("eventId")

	// Malformed events get a 400 here instead of a logged rejection inside
	// the fold, so HTTP callers see the defect immediately.
	if err := engine.ValidateEvent(ev); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.engine.Submit(ev); err != nil {
		var cfgErr *models.ConfigurationError
		if errors.As(err, &cfgErr) {
			response.Error(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		response.InternalError(c, "Failed to submit scan: "+err.Error())
		return
	}

	response.Accepted(c)
}

// GetStats handles GET /api/v1/events/:eventId/stats
func (h *ScanHandler) GetStats(c *gin.Context) {
	response.Success(c, h.engine.Stats(c.Param("eventId")))
}
