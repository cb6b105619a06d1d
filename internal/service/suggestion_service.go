package service

import (
	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/repository"
)

// SuggestionService handles business logic for merge suggestions
type SuggestionService struct {
	repo *repository.SuggestionRepository
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(repo *repository.SuggestionRepository) *SuggestionService {
	return &SuggestionService{repo: repo}
}

// GetSuggestions retrieves every suggestion for an event
func (s *SuggestionService) GetSuggestions(eventID string) ([]models.MergeSuggestion, error) {
	return s.repo.ListByEvent(eventID)
}
