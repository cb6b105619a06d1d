package models

import "time"

// Disposition classifies a candidate into an approval-workflow state
type Disposition string

const (
	DispositionAutoApprove      Disposition = "AUTO_APPROVE"
	DispositionRecommendApprove Disposition = "RECOMMEND_APPROVE"
	DispositionManualReview     Disposition = "MANUAL_REVIEW"
	DispositionReject           Disposition = "REJECT"
	DispositionMergeWithNearby  Disposition = "MERGE_WITH_NEARBY"
)

// CandidateID identifies a gate candidate within its parent event.
// Candidates never span events.
type CandidateID struct {
	EventID     string `json:"eventId"`
	DeclaredTag string `json:"declaredTag"`
}

// String returns the canonical "eventId/tag" form used for ordering and
// persistence keys
func (id CandidateID) String() string {
	return id.EventID + "/" + id.DeclaredTag
}

// Less orders candidate IDs lexicographically on their canonical form.
// Merge suggestion pairs are always stored with the smaller ID first.
func (id CandidateID) Less(other CandidateID) bool {
	return id.String() < other.String()
}

// Candidate is an immutable snapshot of a discovered gate candidate, suitable
// for persistence and the approval workflow. ConfidenceScore is nil while the
// candidate is below the minimum event count; scoring is absent, not zero.
type Candidate struct {
	ID                 CandidateID `json:"id"`
	Count              int         `json:"count" db:"event_count"`
	CentroidLat        float64     `json:"centroidLat" db:"centroid_lat"`
	CentroidLon        float64     `json:"centroidLon" db:"centroid_lon"`
	SpatialVariance    float64     `json:"spatialVariance" db:"spatial_variance"`
	FirstObservedAt    time.Time   `json:"firstObservedAt" db:"first_observed_at"`
	LastObservedAt     time.Time   `json:"lastObservedAt" db:"last_observed_at"`
	DistinctStaffCount int         `json:"distinctStaffCount" db:"distinct_staff_count"`

	ConfidenceScore *float64     `json:"confidenceScore,omitempty" db:"confidence_score"`
	Disposition     Disposition  `json:"disposition,omitempty" db:"disposition"`
	MergeTargetID   *CandidateID `json:"mergeTargetId,omitempty" db:"merge_target"`
}

// Scored reports whether the candidate has reached the minimum event count
// and carries a confidence score
func (c *Candidate) Scored() bool {
	return c.ConfidenceScore != nil
}

// CandidateFilter represents filter parameters for querying candidates
type CandidateFilter struct {
	Disposition string  `form:"disposition"`
	MinScore    float64 `form:"minScore"`
	MinCount    int     `form:"minCount"`
	Page        int     `form:"page"`
	PageSize    int     `form:"pageSize"`
}

// Normalize clamps pagination to the served range (page >= 1, page size
// 1..1000, default 100). Responses echo the clamped values, so the same
// bounds apply at the HTTP layer and in the repository.
func (f *CandidateFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 100
	}
	if f.PageSize > 1000 {
		f.PageSize = 1000
	}
}

// CandidatesResponse represents a paginated response of candidates
type CandidatesResponse struct {
	Data       []Candidate `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
