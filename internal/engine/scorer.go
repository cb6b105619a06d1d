package engine

import (
	"time"
)

// Weights of the four confidence sub-scores. Not configurable, so that
// scores stay comparable across deployments.
const (
	weightSpatial  = 0.40
	weightTemporal = 0.30
	weightStaff    = 0.20
	weightVolume   = 0.10
)

// minDurationHours floors the observed time span so a single-event candidate
// never divides by zero
const minDurationHours = 1.0 / 60.0

// CandidateStats is the scoring input: the running statistics a candidate
// has accumulated so far
type CandidateStats struct {
	Count              int
	SpatialVariance    float64
	FirstObservedAt    time.Time
	LastObservedAt     time.Time
	DistinctStaffCount int
}

// Score converts running statistics into a confidence score in [0,1]. Pure,
// deterministic and idempotent. Candidates below minEvents have no defined
// score: callers must not ask, and doing so returns ErrUnscored.
func Score(stats CandidateStats, minEvents int) (float64, error) {
	if stats.Count < minEvents {
		return 0, ErrUnscored
	}
	score := weightSpatial*spatialConsistencyScore(stats.SpatialVariance) +
		weightTemporal*temporalDensityScore(stats.Count, stats.FirstObservedAt, stats.LastObservedAt) +
		weightStaff*staffConsistencyScore(stats.Count, stats.DistinctStaffCount) +
		weightVolume*volumeScore(stats.Count)
	return score, nil
}

// spatialConsistencyScore maps the scalar spatial variance (degrees², see
// spatial.RunningPosition) to a banded sub-score. Tighter clustering is
// better; the mapping is monotonically non-increasing, saturating at 1.0
// below roughly a 3-4m spread and bottoming out at 0.3.
func spatialConsistencyScore(variance float64) float64 {
	switch {
	case variance <= 1e-9:
		return 1.0
	case variance <= 5e-9:
		return 0.85
	case variance <= 2e-8:
		return 0.7
	case variance <= 1e-7:
		return 0.5
	case variance <= 5e-7:
		return 0.4
	default:
		return 0.3
	}
}

// temporalDensityScore bands the event rate in events per hour of observed
// span. The top band is exclusive: exactly 5 events/hour scores 0.8.
func temporalDensityScore(count int, first, last time.Time) float64 {
	hours := last.Sub(first).Hours()
	if hours < minDurationHours {
		hours = minDurationHours
	}
	rate := float64(count) / hours

	switch {
	case rate > 5:
		return 1.0
	case rate >= 2:
		return 0.8
	case rate >= 1:
		return 0.6
	default:
		return 0.4
	}
}

// staffConsistencyScore rewards many check-ins per distinct staff member,
// capped at 10 per head so raw volume cannot dominate the sub-score
func staffConsistencyScore(count, distinctStaff int) float64 {
	if distinctStaff < 1 {
		distinctStaff = 1
	}
	perStaff := float64(count) / float64(distinctStaff)
	if perStaff > 10 {
		perStaff = 10
	}
	return perStaff / 10
}

// volumeScore bands the raw confirmed-event count
func volumeScore(count int) float64 {
	switch {
	case count > 50:
		return 1.0
	case count > 20:
		return 0.8
	case count > 10:
		return 0.6
	default:
		return 0.4
	}
}
