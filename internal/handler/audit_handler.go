package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/venuekit/gate-discovery-go/internal/engine"
	"github.com/venuekit/gate-discovery-go/internal/service"
	"github.com/venuekit/gate-discovery-go/pkg/response"
)

// AuditHandler serves explicit pairwise re-evaluation requests. Unlike the
// streaming path, an audit reports every scored pair, including explicit
// SEPARATE classifications, so an operator can review the full proximity
// picture of an event.
type AuditHandler struct {
	candidates *service.CandidateService
	engine     *engine.Engine
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(candidates *service.CandidateService, e *engine.Engine) *AuditHandler {
	return &AuditHandler{candidates: candidates, engine: e}
}

// Audit handles POST /api/v1/events/:eventId/audit
func (h *AuditHandler) Audit(c *gin.Context) {
	eventID := c.Param("eventId")

	cfg, err := h.engine.Config(eventID)
	if err != nil {
		response.InternalError(c, "Failed to resolve configuration: "+err.Error())
		return
	}

	candidates, err := h.candidates.GetAllCandidates(eventID)
	if err != nil {
		response.InternalError(c, "Failed to get candidates: "+err.Error())
		return
	}

	pairs := engine.Audit(candidates, cfg)
	response.Success(c, gin.H{"data": pairs, "total": len(pairs)})
}
