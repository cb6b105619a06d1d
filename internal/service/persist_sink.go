package service

import (
	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/repository"
)

// PersistSink delivers engine output to the database. It implements
// engine.Sink; every value it receives is already an immutable snapshot.
type PersistSink struct {
	candidates  *repository.CandidateRepository
	suggestions *repository.SuggestionRepository
}

// NewPersistSink creates a sink writing through the given repositories
func NewPersistSink(candidates *repository.CandidateRepository, suggestions *repository.SuggestionRepository) *PersistSink {
	return &PersistSink{candidates: candidates, suggestions: suggestions}
}

// UpsertCandidate stores or replaces a candidate record
func (s *PersistSink) UpsertCandidate(c models.Candidate) error {
	return s.candidates.Upsert(c)
}

// ReplaceSuggestions replaces the stored suggestion set involving a candidate
func (s *PersistSink) ReplaceSuggestions(eventID string, id models.CandidateID, suggestions []models.MergeSuggestion) error {
	return s.suggestions.Replace(eventID, id, suggestions)
}
