package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// CandidateRepository handles database operations for gate candidates
type CandidateRepository struct {
	db *sql.DB
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// Upsert stores or replaces a candidate record by its ID
func (r *CandidateRepository) Upsert(c models.Candidate) error {
	var score sql.NullFloat64
	if c.ConfidenceScore != nil {
		score = sql.NullFloat64{Float64: *c.ConfidenceScore, Valid: true}
	}
	var disposition sql.NullString
	if c.Disposition != "" {
		disposition = sql.NullString{String: string(c.Disposition), Valid: true}
	}
	var mergeTarget sql.NullString
	if c.MergeTargetID != nil {
		mergeTarget = sql.NullString{String: c.MergeTargetID.DeclaredTag, Valid: true}
	}

	query := `
		INSERT INTO gate_candidates (
			candidate_id, event_id, declared_tag, event_count,
			centroid_lat, centroid_lon, spatial_variance,
			first_observed_at, last_observed_at, distinct_staff_count,
			confidence_score, disposition, merge_target, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(candidate_id) DO UPDATE SET
			event_count = excluded.event_count,
			centroid_lat = excluded.centroid_lat,
			centroid_lon = excluded.centroid_lon,
			spatial_variance = excluded.spatial_variance,
			first_observed_at = excluded.first_observed_at,
			last_observed_at = excluded.last_observed_at,
			distinct_staff_count = excluded.distinct_staff_count,
			confidence_score = excluded.confidence_score,
			disposition = excluded.disposition,
			merge_target = excluded.merge_target,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(query,
		c.ID.String(), c.ID.EventID, c.ID.DeclaredTag, c.Count,
		c.CentroidLat, c.CentroidLon, c.SpatialVariance,
		c.FirstObservedAt.Unix(), c.LastObservedAt.Unix(), c.DistinctStaffCount,
		score, disposition, mergeTarget,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

const candidateColumns = `event_id, declared_tag, event_count,
	centroid_lat, centroid_lon, spatial_variance,
	first_observed_at, last_observed_at, distinct_staff_count,
	confidence_score, disposition, merge_target`

// scanCandidate reads one candidate row
func scanCandidate(row interface{ Scan(...interface{}) error }) (models.Candidate, error) {
	var c models.Candidate
	var first, last int64
	var score sql.NullFloat64
	var disposition, mergeTarget sql.NullString

	err := row.Scan(
		&c.ID.EventID, &c.ID.DeclaredTag, &c.Count,
		&c.CentroidLat, &c.CentroidLon, &c.SpatialVariance,
		&first, &last, &c.DistinctStaffCount,
		&score, &disposition, &mergeTarget,
	)
	if err != nil {
		return c, err
	}

	c.FirstObservedAt = time.Unix(first, 0).UTC()
	c.LastObservedAt = time.Unix(last, 0).UTC()
	if score.Valid {
		v := score.Float64
		c.ConfidenceScore = &v
	}
	if disposition.Valid {
		c.Disposition = models.Disposition(disposition.String)
	}
	if mergeTarget.Valid {
		c.MergeTargetID = &models.CandidateID{EventID: c.ID.EventID, DeclaredTag: mergeTarget.String}
	}
	return c, nil
}

// GetByID retrieves a single candidate
func (r *CandidateRepository) GetByID(id models.CandidateID) (*models.Candidate, error) {
	query := "SELECT " + candidateColumns + " FROM gate_candidates WHERE candidate_id = ?"
	c, err := scanCandidate(r.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return &c, nil
}

// List retrieves an event's candidates with filtering and pagination
func (r *CandidateRepository) List(eventID string, filter models.CandidateFilter) ([]models.Candidate, int64, error) {
	conditions := []string{"event_id = ?"}
	args := []interface{}{eventID}

	if filter.Disposition != "" {
		conditions = append(conditions, "disposition = ?")
		args = append(args, filter.Disposition)
	}
	if filter.MinScore > 0 {
		conditions = append(conditions, "confidence_score >= ?")
		args = append(args, filter.MinScore)
	}
	if filter.MinCount > 0 {
		conditions = append(conditions, "event_count >= ?")
		args = append(args, filter.MinCount)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM gate_candidates"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	filter.Normalize()
	offset := (filter.Page - 1) * filter.PageSize

	query := "SELECT " + candidateColumns + " FROM gate_candidates" + where +
		" ORDER BY confidence_score DESC, declared_tag ASC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating candidates: %w", err)
	}
	return out, total, nil
}

// ListByEvent retrieves every candidate of an event, unpaginated, for audit
// and export surfaces
func (r *CandidateRepository) ListByEvent(eventID string) ([]models.Candidate, error) {
	query := "SELECT " + candidateColumns + " FROM gate_candidates WHERE event_id = ? ORDER BY declared_tag"
	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return out, nil
}
