package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// recordingSink captures the engine's output stream for assertions
type recordingSink struct {
	mu          sync.Mutex
	candidates  map[string]models.Candidate
	suggestions map[string]models.MergeSuggestion
	upserts     int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		candidates:  make(map[string]models.Candidate),
		suggestions: make(map[string]models.MergeSuggestion),
	}
}

func (s *recordingSink) UpsertCandidate(c models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID.String()] = c
	s.upserts++
	return nil
}

func (s *recordingSink) ReplaceSuggestions(eventID string, id models.CandidateID, suggestions []models.MergeSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, existing := range s.suggestions {
		if existing.Involves(id) {
			delete(s.suggestions, key)
		}
	}
	for _, sg := range suggestions {
		s.suggestions[sg.PairKey()] = sg
	}
	return nil
}

func (s *recordingSink) candidate(t *testing.T, id models.CandidateID) models.Candidate {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id.String()]
	require.True(t, ok, "candidate %s not in sink", id)
	return c
}

func (s *recordingSink) suggestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.suggestions)
}

func submitAll(t *testing.T, e *Engine, events []models.ScanEvent) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, e.Submit(ev))
	}
}

// tagCluster emits n confirmed scans at a fixed position, ten minutes apart,
// alternating between two staff members
func tagCluster(eventID, tag string, lat, lon float64, n int) []models.ScanEvent {
	events := make([]models.ScanEvent, n)
	for i := 0; i < n; i++ {
		staff := "s1"
		if i%2 == 1 {
			staff = "s2"
		}
		events[i] = scan(eventID, tag, lat, lon, scanBase.Add(time.Duration(i)*10*time.Minute), staff)
	}
	return events
}

func TestEngine_TwoNearbyGatesMerge(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	// Two tags whose centroids sit 8m apart, each with enough clean volume
	// to score well above the recommend threshold.
	submitAll(t, e, tagCluster("evt-1", "gate-a", 40.0, -73.0, 6))
	submitAll(t, e, tagCluster("evt-1", "gate-b", 40.0+8*metersLat, -73.0, 6))
	e.Close()

	idA := models.CandidateID{EventID: "evt-1", DeclaredTag: "gate-a"}
	idB := models.CandidateID{EventID: "evt-1", DeclaredTag: "gate-b"}

	a := sink.candidate(t, idA)
	b := sink.candidate(t, idB)

	require.True(t, a.Scored())
	require.True(t, b.Scored())
	assert.GreaterOrEqual(t, *a.ConfidenceScore, 0.75)
	assert.GreaterOrEqual(t, *b.ConfidenceScore, 0.75)

	assert.Equal(t, models.DispositionMergeWithNearby, a.Disposition)
	assert.Equal(t, models.DispositionMergeWithNearby, b.Disposition)
	require.NotNil(t, a.MergeTargetID)
	require.NotNil(t, b.MergeTargetID)
	assert.Equal(t, idB, *a.MergeTargetID)
	assert.Equal(t, idA, *b.MergeTargetID)

	assert.Equal(t, 1, sink.suggestionCount(), "one suggestion for the unordered pair")
}

func TestEngine_LowVolumeTagStaysUnscored(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	submitAll(t, e, tagCluster("evt-1", "maybe-gate", 40.0, -73.0, 3))
	e.Close()

	c := sink.candidate(t, models.CandidateID{EventID: "evt-1", DeclaredTag: "maybe-gate"})
	assert.Equal(t, 1, c.Count, "only the creating scan retriggers below the epsilon")
	assert.False(t, c.Scored())
	assert.Empty(t, c.Disposition)
	assert.Zero(t, sink.suggestionCount(), "unscored candidates never join merge detection")
}

func TestEngine_DistantGatesStaySeparate(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	submitAll(t, e, tagCluster("evt-1", "gate-a", 40.0, -73.0, 6))
	submitAll(t, e, tagCluster("evt-1", "gate-b", 40.0+500*metersLat, -73.0, 6))
	e.Close()

	a := sink.candidate(t, models.CandidateID{EventID: "evt-1", DeclaredTag: "gate-a"})
	b := sink.candidate(t, models.CandidateID{EventID: "evt-1", DeclaredTag: "gate-b"})

	assert.Equal(t, models.DispositionRecommendApprove, a.Disposition)
	assert.Equal(t, models.DispositionRecommendApprove, b.Disposition)
	assert.Zero(t, sink.suggestionCount())
}

func TestEngine_EventsAreIsolated(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	// Same tag and position in two different events: candidates must never
	// span events, so no suggestion can appear between them.
	submitAll(t, e, tagCluster("evt-1", "gate-a", 40.0, -73.0, 6))
	submitAll(t, e, tagCluster("evt-2", "gate-a", 40.0, -73.0, 6))
	e.Close()

	a1 := sink.candidate(t, models.CandidateID{EventID: "evt-1", DeclaredTag: "gate-a"})
	a2 := sink.candidate(t, models.CandidateID{EventID: "evt-2", DeclaredTag: "gate-a"})
	assert.Equal(t, 6, a1.Count)
	assert.Equal(t, 6, a2.Count)
	assert.Zero(t, sink.suggestionCount())
}

func TestEngine_RejectedEventsAreCounted(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	require.NoError(t, e.Submit(scan("evt-1", "g", 40, -73, scanBase, "s1")))

	bad := scan("evt-1", "", 40, -73, scanBase, "s1")
	require.NoError(t, e.Submit(bad), "malformed events are rejected inside the fold, not at intake")

	e.Close()

	stats := e.Stats("evt-1")
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(1), stats.Rejected)
}

func TestEngine_InvalidConfigurationFailsAtWorkerStart(t *testing.T) {
	bad := models.DefaultConfiguration()
	bad.MergeThresholdMeters = 50 // exceeds the virtual-gate threshold

	e := New(StaticConfig(bad), newRecordingSink())
	defer e.Close()

	err := e.Submit(scan("evt-1", "g", 40, -73, scanBase, "s1"))
	var cfgErr *models.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestEngine_SubmitRequiresEventID(t *testing.T) {
	e := New(StaticConfig(models.DefaultConfiguration()), newRecordingSink())
	defer e.Close()

	ev := scan("", "g", 40, -73, scanBase, "s1")
	err := e.Submit(ev)
	var invalid *InvalidEventError
	require.ErrorAs(t, err, &invalid)
}

func TestEngine_UnconfirmedScansLeaveNoTrace(t *testing.T) {
	sink := newRecordingSink()
	e := New(StaticConfig(models.DefaultConfiguration()), sink)

	events := tagCluster("evt-1", "probe", 40.0, -73.0, 6)
	for i := range events {
		events[i].Confirmed = false
	}
	submitAll(t, e, events)
	e.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Empty(t, sink.candidates)
}
