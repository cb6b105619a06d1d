package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuekit/gate-discovery-go/internal/config"
	"github.com/venuekit/gate-discovery-go/internal/handler"
	"github.com/venuekit/gate-discovery-go/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts
type Handlers struct {
	Scans       *handler.ScanHandler
	Candidates  *handler.CandidateHandler
	Suggestions *handler.SuggestionHandler
	Audit       *handler.AuditHandler
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Gate Discovery API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		events := api.Group("/events/:eventId")
		{
			events.POST("/scans", h.Scans.IngestScan)
			events.GET("/stats", h.Scans.GetStats)

			events.GET("/candidates", h.Candidates.GetCandidates)
			events.GET("/candidates/:tag", h.Candidates.GetCandidate)
			events.GET("/geojson", h.Candidates.ExportGeoJSON)

			events.GET("/suggestions", h.Suggestions.GetSuggestions)
			events.POST("/audit", h.Audit.Audit)
		}
	}

	return r
}
