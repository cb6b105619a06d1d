package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// profileFile is the on-disk shape: a defaults block plus per-event
// overrides. Zero-valued override fields inherit from defaults, so a profile
// only states what differs.
type profileFile struct {
	Defaults models.Configuration            `yaml:"defaults"`
	Events   map[string]models.Configuration `yaml:"events"`
}

// Provider resolves per-event threshold configurations from an optional YAML
// profile file. It implements engine.ConfigProvider.
type Provider struct {
	defaults models.Configuration
	events   map[string]models.Configuration
}

// Load reads a profile file. An empty path yields a provider serving the
// built-in defaults for every event. Inconsistent thresholds fail here, at
// startup, never mid-stream.
func Load(path string) (*Provider, error) {
	p := &Provider{
		defaults: models.DefaultConfiguration(),
		events:   make(map[string]models.Configuration),
	}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile file not found: %s", path)
		}
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}

	p.defaults = merge(models.DefaultConfiguration(), f.Defaults)
	if err := p.defaults.Validate(); err != nil {
		return nil, fmt.Errorf("profile defaults: %w", err)
	}

	for eventID, override := range f.Events {
		cfg := merge(p.defaults, override)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("profile for event %s: %w", eventID, err)
		}
		p.events[eventID] = cfg
	}
	return p, nil
}

// ConfigFor returns the configuration for an event, falling back to defaults
func (p *Provider) ConfigFor(eventID string) (models.Configuration, error) {
	if cfg, ok := p.events[eventID]; ok {
		return cfg, nil
	}
	return p.defaults, nil
}

// merge overlays the non-zero fields of an override onto a base
func merge(base, override models.Configuration) models.Configuration {
	out := base
	if override.MinEventsForCandidate != 0 {
		out.MinEventsForCandidate = override.MinEventsForCandidate
	}
	if override.MergeThresholdMeters != 0 {
		out.MergeThresholdMeters = override.MergeThresholdMeters
	}
	if override.VirtualGateThresholdMeters != 0 {
		out.VirtualGateThresholdMeters = override.VirtualGateThresholdMeters
	}
	if override.AutoApproveScore != 0 {
		out.AutoApproveScore = override.AutoApproveScore
	}
	if override.RecommendScore != 0 {
		out.RecommendScore = override.RecommendScore
	}
	return out
}
