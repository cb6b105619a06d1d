package models

import "fmt"

// Default thresholds applied when an event has no profile override
const (
	DefaultMinEventsForCandidate      = 5
	DefaultMergeThresholdMeters       = 10.0
	DefaultVirtualGateThresholdMeters = 25.0
	DefaultAutoApproveScore           = 0.95
	DefaultRecommendScore             = 0.75
)

// Configuration holds the per-event thresholds that gate scoring, merge
// detection and auto-approval. It is read at worker start; there is no live
// reconfiguration mid-fold.
type Configuration struct {
	MinEventsForCandidate      int     `json:"minEventsForCandidate" yaml:"minEventsForCandidate"`
	MergeThresholdMeters       float64 `json:"mergeThresholdMeters" yaml:"mergeThresholdMeters"`
	VirtualGateThresholdMeters float64 `json:"virtualGateThresholdMeters" yaml:"virtualGateThresholdMeters"`
	AutoApproveScore           float64 `json:"autoApproveScore" yaml:"autoApproveScore"`
	RecommendScore             float64 `json:"recommendScore" yaml:"recommendScore"`
}

// DefaultConfiguration returns the built-in thresholds
func DefaultConfiguration() Configuration {
	return Configuration{
		MinEventsForCandidate:      DefaultMinEventsForCandidate,
		MergeThresholdMeters:       DefaultMergeThresholdMeters,
		VirtualGateThresholdMeters: DefaultVirtualGateThresholdMeters,
		AutoApproveScore:           DefaultAutoApproveScore,
		RecommendScore:             DefaultRecommendScore,
	}
}

// ConfigurationError reports internally inconsistent thresholds. It is fatal
// at worker start, never discovered mid-stream.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate rejects internally inconsistent threshold sets
func (c Configuration) Validate() error {
	if c.MinEventsForCandidate < 1 {
		return &ConfigurationError{Field: "minEventsForCandidate", Reason: "must be at least 1"}
	}
	if c.MergeThresholdMeters < 0 {
		return &ConfigurationError{Field: "mergeThresholdMeters", Reason: "must not be negative"}
	}
	if c.VirtualGateThresholdMeters < 0 {
		return &ConfigurationError{Field: "virtualGateThresholdMeters", Reason: "must not be negative"}
	}
	if c.MergeThresholdMeters > c.VirtualGateThresholdMeters {
		return &ConfigurationError{
			Field:  "mergeThresholdMeters",
			Reason: "must not exceed virtualGateThresholdMeters",
		}
	}
	if c.AutoApproveScore < 0 || c.AutoApproveScore > 1 {
		return &ConfigurationError{Field: "autoApproveScore", Reason: "must be in [0,1]"}
	}
	if c.RecommendScore < 0 || c.RecommendScore > 1 {
		return &ConfigurationError{Field: "recommendScore", Reason: "must be in [0,1]"}
	}
	if c.RecommendScore > c.AutoApproveScore {
		return &ConfigurationError{Field: "recommendScore", Reason: "must not exceed autoApproveScore"}
	}
	return nil
}
