package models

import "time"

// ScanEvent is a single geotagged entry-scan delivered by the ingestion
// collaborator. Events are immutable; the engine never writes them back.
type ScanEvent struct {
	EventID     string    `json:"eventId"`
	DeclaredTag string    `json:"declaredTag"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ObservedAt  time.Time `json:"observedAt"`
	StaffID     string    `json:"staffId"`
	Confirmed   bool      `json:"confirmed"`
}
