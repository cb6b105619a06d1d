package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/service"
	"github.com/venuekit/gate-discovery-go/pkg/response"
)

// CandidateHandler handles HTTP requests for gate candidates
type CandidateHandler struct {
	service *service.CandidateService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(service *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// GetCandidates handles GET /api/v1/events/:eventId/candidates
func (h *CandidateHandler) GetCandidates(c *gin.Context) {
	var filter models.CandidateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter.Normalize()

	candidates, total, err := h.service.GetCandidates(c.Param("eventId"), filter)
	if err != nil {
		response.InternalError(c, "Failed to get candidates: "+err.Error())
		return
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, models.CandidatesResponse{
		Data:       candidates,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

// GetCandidate handles GET /api/v1/events/:eventId/candidates/:tag
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidate, err := h.service.GetCandidate(c.Param("eventId"), c.Param("tag"))
	if err != nil {
		response.InternalError(c, "Failed to get candidate: "+err.Error())
		return
	}
	if candidate == nil {
		response.NotFound(c, "Candidate not found")
		return
	}
	response.Success(c, candidate)
}

// ExportGeoJSON handles GET /api/v1/events/:eventId/geojson, rendering
// candidate centroids as a FeatureCollection for map overlays
func (h *CandidateHandler) ExportGeoJSON(c *gin.Context) {
	candidates, err := h.service.GetAllCandidates(c.Param("eventId"))
	if err != nil {
		response.InternalError(c, "Failed to get candidates: "+err.Error())
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, cand := range candidates {
		f := geojson.NewFeature(orb.Point{cand.CentroidLon, cand.CentroidLat})
		f.Properties["declaredTag"] = cand.ID.DeclaredTag
		f.Properties["count"] = cand.Count
		f.Properties["spatialVariance"] = cand.SpatialVariance
		f.Properties["distinctStaffCount"] = cand.DistinctStaffCount
		if cand.ConfidenceScore != nil {
			f.Properties["confidenceScore"] = *cand.ConfidenceScore
		}
		if cand.Disposition != "" {
			f.Properties["disposition"] = string(cand.Disposition)
		}
		if cand.MergeTargetID != nil {
			f.Properties["mergeTarget"] = cand.MergeTargetID.DeclaredTag
		}
		fc.Append(f)
	}

	c.JSON(http.StatusOK, fc)
}
