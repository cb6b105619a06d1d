package models

// MergeAction is the recommended handling for a pair of nearby candidates
type MergeAction string

const (
	ActionMerge             MergeAction = "MERGE"
	ActionCreateVirtualGate MergeAction = "CREATE_VIRTUAL_GATE"
	ActionSeparate          MergeAction = "SEPARATE"
)

// MergeSuggestion records that two candidates may be the same physical gate.
// The pair is stored with PrimaryID lexicographically smaller than
// CandidateID so that one unordered pair never yields two rows.
type MergeSuggestion struct {
	PrimaryID      CandidateID `json:"primaryId"`
	CandidateID    CandidateID `json:"candidateId"`
	DistanceMeters float64     `json:"distanceMeters" db:"distance_meters"`
	Action         MergeAction `json:"recommendedAction" db:"recommended_action"`

	// Confidence is the minimum of the two candidates' scores, a
	// conservative merge confidence.
	Confidence float64 `json:"confidence" db:"confidence"`
}

// NewMergeSuggestion builds a suggestion with the pair in canonical order
func NewMergeSuggestion(a, b CandidateID, distance float64, action MergeAction, confidence float64) MergeSuggestion {
	if b.Less(a) {
		a, b = b, a
	}
	return MergeSuggestion{
		PrimaryID:      a,
		CandidateID:    b,
		DistanceMeters: distance,
		Action:         action,
		Confidence:     confidence,
	}
}

// PairKey returns the canonical key for the unordered pair
func (s MergeSuggestion) PairKey() string {
	return s.PrimaryID.String() + "|" + s.CandidateID.String()
}

// Involves reports whether the suggestion references the given candidate
func (s MergeSuggestion) Involves(id CandidateID) bool {
	return s.PrimaryID == id || s.CandidateID == id
}

// Partner returns the other member of the pair
func (s MergeSuggestion) Partner(id CandidateID) CandidateID {
	if s.PrimaryID == id {
		return s.CandidateID
	}
	return s.PrimaryID
}
