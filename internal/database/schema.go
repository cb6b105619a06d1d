package database

import (
	"database/sql"
	"fmt"
)

// schema creates the collaborator-facing tables. The engine itself has no
// persistence format; these tables are the upsert targets the approval
// workflow reads.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS gate_candidates (
		candidate_id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		declared_tag TEXT NOT NULL,
		event_count INTEGER NOT NULL,
		centroid_lat REAL NOT NULL,
		centroid_lon REAL NOT NULL,
		spatial_variance REAL NOT NULL,
		first_observed_at INTEGER NOT NULL,
		last_observed_at INTEGER NOT NULL,
		distinct_staff_count INTEGER NOT NULL,
		confidence_score REAL,
		disposition TEXT,
		merge_target TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_event ON gate_candidates(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_disposition ON gate_candidates(event_id, disposition)`,
	`CREATE TABLE IF NOT EXISTS merge_suggestions (
		pair_key TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		primary_tag TEXT NOT NULL,
		candidate_tag TEXT NOT NULL,
		distance_meters REAL NOT NULL,
		recommended_action TEXT NOT NULL,
		confidence REAL NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_suggestions_event ON merge_suggestions(event_id)`,
}

// ApplySchema runs the schema statements in order. Exposed so embedders and
// tests can prepare a database without the package-level connection.
func ApplySchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
