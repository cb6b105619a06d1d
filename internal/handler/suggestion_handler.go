package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/venuekit/gate-discovery-go/internal/service"
	"github.com/venuekit/gate-discovery-go/pkg/response"
)

// SuggestionHandler handles HTTP requests for merge suggestions
type SuggestionHandler struct {
	service *service.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(service *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// GetSuggestions handles GET /api/v1/events/:eventId/suggestions
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	suggestions, err := h.service.GetSuggestions(c.Param("eventId"))
	if err != nil {
		response.InternalError(c, "Failed to get suggestions: "+err.Error())
		return
	}
	response.Success(c, gin.H{"data": suggestions, "total": len(suggestions)})
}
