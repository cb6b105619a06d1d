package engine

import (
	"github.com/venuekit/gate-discovery-go/internal/models"
)

// Sink receives the engine's outputs for persistence and display. All values
// are immutable snapshots; the sink never sees live worker state. A sink is
// called from one goroutine per event ID, sequentially, with every output of
// one input event delivered before the next event is folded.
type Sink interface {
	// UpsertCandidate stores or replaces a candidate record by its ID
	UpsertCandidate(c models.Candidate) error

	// ReplaceSuggestions replaces every stored suggestion involving the
	// given candidate with the provided set
	ReplaceSuggestions(eventID string, id models.CandidateID, suggestions []models.MergeSuggestion) error
}

// ConfigProvider resolves the threshold configuration for an event. It is
// consulted once at worker start and on explicit audit requests.
type ConfigProvider interface {
	ConfigFor(eventID string) (models.Configuration, error)
}

// StaticConfig is a ConfigProvider serving one fixed configuration for every
// event
type StaticConfig models.Configuration

// ConfigFor returns the fixed configuration
func (s StaticConfig) ConfigFor(string) (models.Configuration, error) {
	return models.Configuration(s), nil
}
