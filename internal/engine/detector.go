package engine

import (
	"sort"

	"github.com/venuekit/gate-discovery-go/internal/models"
	"github.com/venuekit/gate-discovery-go/internal/spatial"
)

// Evaluate compares a changed candidate against the other scored candidates
// of the same event and classifies each pair by centroid distance:
// within the merge threshold the pair should merge, within the virtual-gate
// threshold it is suspicious, beyond that no suggestion is emitted (absence
// is the normal case; SEPARATE only appears in explicit audits).
//
// The flat pairwise scan is O(n) per changed candidate and O(n²) over a full
// event; fine at tens-to-hundreds of tags per event. Past that, swap in a
// grid hash or k-d tree per event behind this same contract.
func Evaluate(changed models.Candidate, others []models.Candidate, cfg models.Configuration) ([]models.MergeSuggestion, error) {
	if !changed.Scored() {
		return nil, ErrUnscored
	}

	seen := make(map[string]struct{})
	var out []models.MergeSuggestion

	from := spatial.Position{Lat: changed.CentroidLat, Lon: changed.CentroidLon}
	for i := range others {
		other := &others[i]
		if other.ID == changed.ID || !other.Scored() {
			continue
		}

		d := spatial.Distance(from, spatial.Position{Lat: other.CentroidLat, Lon: other.CentroidLon})
		action, ok := classify(d, cfg)
		if !ok {
			continue
		}

		s := models.NewMergeSuggestion(changed.ID, other.ID, d, action,
			minScore(*changed.ConfidenceScore, *other.ConfidenceScore))
		if _, dup := seen[s.PairKey()]; dup {
			continue
		}
		seen[s.PairKey()] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Audit re-evaluates every scored pair of an event, including explicit
// SEPARATE classifications for pairs beyond the virtual-gate threshold.
// This serves on-demand review requests only; the streaming path never emits
// SEPARATE.
func Audit(candidates []models.Candidate, cfg models.Configuration) []models.MergeSuggestion {
	scored := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Scored() {
			scored = append(scored, c)
		}
	}

	var out []models.MergeSuggestion
	for i := 0; i < len(scored); i++ {
		for j := i + 1; j < len(scored); j++ {
			a, b := scored[i], scored[j]
			d := spatial.Distance(
				spatial.Position{Lat: a.CentroidLat, Lon: a.CentroidLon},
				spatial.Position{Lat: b.CentroidLat, Lon: b.CentroidLon},
			)
			action, ok := classify(d, cfg)
			if !ok {
				action = models.ActionSeparate
			}
			out = append(out, models.NewMergeSuggestion(a.ID, b.ID, d, action,
				minScore(*a.ConfidenceScore, *b.ConfidenceScore)))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PairKey() < out[j].PairKey() })
	return out
}

// classify maps a centroid distance to its band. The bool is false when the
// pair is far enough apart that no suggestion should exist.
func classify(distanceMeters float64, cfg models.Configuration) (models.MergeAction, bool) {
	switch {
	case distanceMeters <= cfg.MergeThresholdMeters:
		return models.ActionMerge, true
	case distanceMeters <= cfg.VirtualGateThresholdMeters:
		return models.ActionCreateVirtualGate, true
	default:
		return "", false
	}
}

func minScore(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
