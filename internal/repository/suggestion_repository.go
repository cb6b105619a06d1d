package repository

import (
	"database/sql"
	"fmt"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// SuggestionRepository handles database operations for merge suggestions
type SuggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *sql.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Replace deletes every stored suggestion involving the given candidate and
// inserts the fresh set, atomically. Suggestions are replaced, never
// appended, whenever a member's centroid moves materially.
func (r *SuggestionRepository) Replace(eventID string, id models.CandidateID, suggestions []models.MergeSuggestion) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"DELETE FROM merge_suggestions WHERE event_id = ? AND (primary_tag = ? OR candidate_tag = ?)",
		eventID, id.DeclaredTag, id.DeclaredTag,
	)
	if err != nil {
		return fmt.Errorf("failed to clear suggestions for %s: %w", id, err)
	}

	for _, s := range suggestions {
		_, err = tx.Exec(`
			INSERT INTO merge_suggestions (
				pair_key, event_id, primary_tag, candidate_tag,
				distance_meters, recommended_action, confidence, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(pair_key) DO UPDATE SET
				distance_meters = excluded.distance_meters,
				recommended_action = excluded.recommended_action,
				confidence = excluded.confidence,
				updated_at = CURRENT_TIMESTAMP
		`, s.PairKey(), eventID, s.PrimaryID.DeclaredTag, s.CandidateID.DeclaredTag,
			s.DistanceMeters, s.Action, s.Confidence)
		if err != nil {
			return fmt.Errorf("failed to insert suggestion %s: %w", s.PairKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit suggestion replacement: %w", err)
	}
	return nil
}

// ListByEvent retrieves every suggestion for an event
func (r *SuggestionRepository) ListByEvent(eventID string) ([]models.MergeSuggestion, error) {
	rows, err := r.db.Query(`
		SELECT primary_tag, candidate_tag, distance_meters, recommended_action, confidence
		FROM merge_suggestions
		WHERE event_id = ?
		ORDER BY distance_meters ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var out []models.MergeSuggestion
	for rows.Next() {
		var s models.MergeSuggestion
		var primaryTag, candidateTag string
		var action string
		if err := rows.Scan(&primaryTag, &candidateTag, &s.DistanceMeters, &action, &s.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		s.PrimaryID = models.CandidateID{EventID: eventID, DeclaredTag: primaryTag}
		s.CandidateID = models.CandidateID{EventID: eventID, DeclaredTag: candidateTag}
		s.Action = models.MergeAction(action)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return out, nil
}
