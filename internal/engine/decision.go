package engine

import (
	"github.com/venuekit/gate-discovery-go/internal/models"
)

// manualReviewScore is the floor below which a standalone candidate is
// rejected outright
const manualReviewScore = 0.5

// Decide maps a scored candidate plus its current merge suggestions to a
// disposition. First match wins:
//
//  1. any MERGE suggestion forces MERGE_WITH_NEARBY, targeting the nearest
//     partner (ties broken by higher suggestion confidence);
//  2. any CREATE_VIRTUAL_GATE suggestion downgrades the pure score
//     disposition one level;
//  3. otherwise the score thresholds apply.
//
// Proximity conflicts outrank the score: a spatially ambiguous candidate is
// never auto-approved no matter how clean its own cluster is.
func Decide(c models.Candidate, suggestions []models.MergeSuggestion, cfg models.Configuration) (models.Disposition, *models.CandidateID, error) {
	if !c.Scored() {
		return "", nil, ErrUnscored
	}

	var mergeTarget *models.CandidateID
	var mergeDistance float64
	var mergeConfidence float64
	hasVirtual := false

	for _, s := range suggestions {
		if !s.Involves(c.ID) {
			continue
		}
		switch s.Action {
		case models.ActionMerge:
			partner := s.Partner(c.ID)
			better := mergeTarget == nil ||
				s.DistanceMeters < mergeDistance ||
				(s.DistanceMeters == mergeDistance && s.Confidence > mergeConfidence)
			if better {
				target := partner
				mergeTarget = &target
				mergeDistance = s.DistanceMeters
				mergeConfidence = s.Confidence
			}
		case models.ActionCreateVirtualGate:
			hasVirtual = true
		}
	}

	if mergeTarget != nil {
		return models.DispositionMergeWithNearby, mergeTarget, nil
	}

	disposition := scoreDisposition(*c.ConfidenceScore, cfg)
	if hasVirtual {
		disposition = downgrade(disposition)
	}
	return disposition, nil, nil
}

// scoreDisposition applies the configured score thresholds alone
func scoreDisposition(score float64, cfg models.Configuration) models.Disposition {
	switch {
	case score >= cfg.AutoApproveScore:
		return models.DispositionAutoApprove
	case score >= cfg.RecommendScore:
		return models.DispositionRecommendApprove
	case score >= manualReviewScore:
		return models.DispositionManualReview
	default:
		return models.DispositionReject
	}
}

// downgrade steps a score disposition one level toward REJECT
func downgrade(d models.Disposition) models.Disposition {
	switch d {
	case models.DispositionAutoApprove:
		return models.DispositionRecommendApprove
	case models.DispositionRecommendApprove:
		return models.DispositionManualReview
	case models.DispositionManualReview:
		return models.DispositionReject
	default:
		return models.DispositionReject
	}
}
