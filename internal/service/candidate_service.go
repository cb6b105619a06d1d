package service

import (
	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/repository"
)

// CandidateService handles business logic for gate candidates
type CandidateService struct {
	repo *repository.CandidateRepository
}

// NewCandidateService creates a new candidate service
func NewCandidateService(repo *repository.CandidateRepository) *CandidateService {
	return &CandidateService{repo: repo}
}

// GetCandidates retrieves an event's candidates with filtering and pagination
func (s *CandidateService) GetCandidates(eventID string, filter models.CandidateFilter) ([]models.Candidate, int64, error) {
	return s.repo.List(eventID, filter)
}

// GetCandidate retrieves a single candidate by tag within the event
func (s *CandidateService) GetCandidate(eventID, tag string) (*models.Candidate, error) {
	return s.repo.GetByID(models.CandidateID{EventID: eventID, DeclaredTag: tag})
}

// GetAllCandidates retrieves every candidate of an event, for audit and
// export surfaces
func (s *CandidateService) GetAllCandidates(eventID string) ([]models.Candidate, error) {
	return s.repo.ListByEvent(eventID)
}
