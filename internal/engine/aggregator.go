package engine

import (
	"time"

	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/spatial"
)

// CentroidEpsilonMeters is the minimum centroid movement that retriggers
// scoring and merge detection. Numeric jitter below this never re-runs the
// downstream pipeline.
const CentroidEpsilonMeters = 1.0

// candidate is the live per-tag state owned by a single event worker. It is
// never shared; external readers get models.Candidate snapshots.
type candidate struct {
	id    models.CandidateID
	pos   spatial.RunningPosition
	first time.Time
	last  time.Time
	staff map[string]struct{}

	score  float64
	scored bool

	disposition models.Disposition
	mergeTarget *models.CandidateID

	// centroid at the last time downstream was triggered
	notifiedAt spatial.Position
}

// stats extracts the scoring inputs from the running state
func (c *candidate) stats() CandidateStats {
	return CandidateStats{
		Count:              c.pos.Count,
		SpatialVariance:    c.pos.Variance(),
		FirstObservedAt:    c.first,
		LastObservedAt:     c.last,
		DistinctStaffCount: len(c.staff),
	}
}

// snapshot copies the candidate into its external representation
func (c *candidate) snapshot() models.Candidate {
	centroid := c.pos.Mean()
	snap := models.Candidate{
		ID:                 c.id,
		Count:              c.pos.Count,
		CentroidLat:        centroid.Lat,
		CentroidLon:        centroid.Lon,
		SpatialVariance:    c.pos.Variance(),
		FirstObservedAt:    c.first,
		LastObservedAt:     c.last,
		DistinctStaffCount: len(c.staff),
		Disposition:        c.disposition,
	}
	if c.scored {
		score := c.score
		snap.ConfidenceScore = &score
	}
	if c.mergeTarget != nil {
		target := *c.mergeTarget
		snap.MergeTargetID = &target
	}
	return snap
}

// Aggregator folds confirmed scan events into per-tag running statistics for
// one event. Candidate statistics are a pure fold over the confirmed events
// with the candidate's tag: replaying the same events in any order produces
// the same centroid, variance and count.
type Aggregator struct {
	eventID    string
	minEvents  int
	candidates map[string]*candidate
}

// NewAggregator creates an aggregator for a single event's stream
func NewAggregator(eventID string, cfg models.Configuration) *Aggregator {
	return &Aggregator{
		eventID:    eventID,
		minEvents:  cfg.MinEventsForCandidate,
		candidates: make(map[string]*candidate),
	}
}

// ValidateEvent rejects scan events with missing or out-of-range required
// fields. Used both inside Apply and by ingest surfaces that want to report
// the defect before enqueueing.
func ValidateEvent(ev models.ScanEvent) error {
	if ev.EventID == "" {
		return &InvalidEventError{Field: "eventId", Reason: "missing"}
	}
	if ev.DeclaredTag == "" {
		return &InvalidEventError{Field: "declaredTag", Reason: "missing"}
	}
	if ev.ObservedAt.IsZero() {
		return &InvalidEventError{Field: "observedAt", Reason: "missing"}
	}
	if !spatial.ValidLatLng(ev.Latitude, ev.Longitude) {
		return &InvalidEventError{Field: "position", Reason: "latitude/longitude out of range"}
	}
	return nil
}

// Apply folds one scan event into the matching candidate's statistics.
// Unconfirmed events are a hard filter: they change no state and return
// changed=false. The changed return is the signal that scoring and merge
// detection must re-run for this candidate; it is true when the centroid
// moved more than CentroidEpsilonMeters, when the candidate was created, or
// when its count just reached the minimum for scoring.
func (a *Aggregator) Apply(ev models.ScanEvent) (models.CandidateID, bool, error) {
	id := models.CandidateID{EventID: ev.EventID, DeclaredTag: ev.DeclaredTag}

	if err := ValidateEvent(ev); err != nil {
		return id, false, err
	}
	if ev.EventID != a.eventID {
		return id, false, &InvalidEventError{Field: "eventId", Reason: "event does not belong to this worker"}
	}
	if !ev.Confirmed {
		return id, false, nil
	}

	pos := spatial.Position{Lat: ev.Latitude, Lon: ev.Longitude}

	c, ok := a.candidates[ev.DeclaredTag]
	if !ok {
		c = &candidate{
			id:    id,
			first: ev.ObservedAt,
			last:  ev.ObservedAt,
			staff: make(map[string]struct{}),
		}
		c.pos.Fold(pos)
		c.notifiedAt = c.pos.Mean()
		c.staff[ev.StaffID] = struct{}{}
		a.candidates[ev.DeclaredTag] = c
		return id, true, nil
	}

	c.pos.Fold(pos)
	if ev.ObservedAt.Before(c.first) {
		c.first = ev.ObservedAt
	}
	if ev.ObservedAt.After(c.last) {
		c.last = ev.ObservedAt
	}
	c.staff[ev.StaffID] = struct{}{}

	centroid := c.pos.Mean()
	moved := spatial.Distance(c.notifiedAt, centroid) > CentroidEpsilonMeters
	crossed := c.pos.Count == a.minEvents
	changed := moved || crossed
	if changed {
		c.notifiedAt = centroid
	}
	return id, changed, nil
}

// get returns the live candidate for a tag, if any
func (a *Aggregator) get(tag string) (*candidate, bool) {
	c, ok := a.candidates[tag]
	return c, ok
}

// all returns the live candidates in no particular order
func (a *Aggregator) all() []*candidate {
	out := make([]*candidate, 0, len(a.candidates))
	for _, c := range a.candidates {
		out = append(out, c)
	}
	return out
}

// Snapshots returns external copies of every candidate
func (a *Aggregator) Snapshots() []models.Candidate {
	out := make([]models.Candidate, 0, len(a.candidates))
	for _, c := range a.candidates {
		out = append(out, c.snapshot())
	}
	return out
}
