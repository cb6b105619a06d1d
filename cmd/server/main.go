package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/venuekit/gate-discovery-go/internal/api"
	"github.com/venuekit/gate-discovery-go/internal/config"
	"github.com/venuekit/gate-discovery-go/internal/database"
	"github.com/venuekit/gate-discovery-go/internal/engine"
	"github.com/venuekit/gate-discovery-go/internal/handler"
	"github.com/venuekit/gate-discovery-go/internal/ingest"
	"github.com/venuekit/gate-discovery-go/internal/profile"
	"github.com/venuekit/gate-discovery-go/internal/repository"
	"github.com/venuekit/gate-discovery-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	// Per-event thresholds; inconsistent profiles fail here, at startup
	profiles, err := profile.Load(cfg.ProfilesPath)
	if err != nil {
		log.Fatal("Failed to load threshold profiles:", err)
	}

	candidateRepo := repository.NewCandidateRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	sink := service.NewPersistSink(candidateRepo, suggestionRepo)

	eng := engine.New(profiles, sink)
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MQTTBroker != "" {
		src := ingest.NewMQTTSource(cfg, eng)
		defer src.Close()
		go func() {
			if err := src.Start(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[MQTT] source stopped: %v", err)
			}
		}()
	}
	if len(cfg.KafkaBrokers) > 0 {
		src := ingest.NewKafkaSource(cfg, eng)
		defer src.Close()
		go func() {
			if err := src.Start(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[Kafka] source stopped: %v", err)
			}
		}()
	}

	router := api.SetupRouter(cfg, api.Handlers{
		Scans:       handler.NewScanHandler(eng),
		Candidates:  handler.NewCandidateHandler(service.NewCandidateService(candidateRepo)),
		Suggestions: handler.NewSuggestionHandler(service.NewSuggestionService(suggestionRepo)),
		Audit:       handler.NewAuditHandler(service.NewCandidateService(candidateRepo), eng),
	})

	// Serve returns once ctx is cancelled and in-flight requests have
	// drained, so the deferred engine, source and database closes run on
	// SIGINT/SIGTERM instead of being lost to a hard kill.
	log.Printf("Server starting on port %s", cfg.Port)
	if err := api.Serve(ctx, cfg.Port, router); err != nil {
		log.Printf("Server error: %v", err)
		return
	}
	log.Println("Server stopped, draining engine")
}
