package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// Submitter accepts decoded scan events; satisfied by engine.Engine
type Submitter interface {
	Submit(ev models.ScanEvent) error
}

// Source is a queue-backed stream of scan events feeding the engine
type Source interface {
	// Start begins consuming until the context is cancelled
	Start(ctx context.Context) error
	// Close releases the underlying connection
	Close() error
}

// decodeScanEvent parses the shared JSON payload schema used by every
// ingestion surface (MQTT, Kafka, HTTP)
func decodeScanEvent(payload []byte) (models.ScanEvent, error) {
	var ev models.ScanEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("decoding scan payload: %w", err)
	}
	return ev, nil
}
