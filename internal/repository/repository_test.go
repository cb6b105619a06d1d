package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/venuekit/gate-discovery-go/internal/database"
	"github.com/venuekit/gate-discovery-go/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.ApplySchema(db))
	return db
}

func sampleCandidate(tag string, score float64) models.Candidate {
	s := score
	return models.Candidate{
		ID:                 models.CandidateID{EventID: "evt-1", DeclaredTag: tag},
		Count:              12,
		CentroidLat:        40.7128,
		CentroidLon:        -74.006,
		SpatialVariance:    2e-10,
		FirstObservedAt:    time.Date(2026, 6, 13, 18, 0, 0, 0, time.UTC),
		LastObservedAt:     time.Date(2026, 6, 13, 20, 0, 0, 0, time.UTC),
		DistinctStaffCount: 3,
		ConfidenceScore:    &s,
		Disposition:        models.DispositionRecommendApprove,
	}
}

func TestCandidateRepository_UpsertAndGet(t *testing.T) {
	repo := NewCandidateRepository(testDB(t))

	c := sampleCandidate("north-gate", 0.82)
	require.NoError(t, repo.Upsert(c))

	got, err := repo.GetByID(c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, 12, got.Count)
	assert.Equal(t, c.FirstObservedAt, got.FirstObservedAt)
	assert.Equal(t, c.LastObservedAt, got.LastObservedAt)
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 0.82, *got.ConfidenceScore, 1e-9)
	assert.Equal(t, models.DispositionRecommendApprove, got.Disposition)
	assert.Nil(t, got.MergeTargetID)

	// Upsert replaces in place
	c.Count = 20
	target := models.CandidateID{EventID: "evt-1", DeclaredTag: "south-gate"}
	c.MergeTargetID = &target
	c.Disposition = models.DispositionMergeWithNearby
	require.NoError(t, repo.Upsert(c))

	got, err = repo.GetByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Count)
	require.NotNil(t, got.MergeTargetID)
	assert.Equal(t, target, *got.MergeTargetID)
}

func TestCandidateRepository_UnscoredRoundTrip(t *testing.T) {
	repo := NewCandidateRepository(testDB(t))

	c := sampleCandidate("quiet-gate", 0)
	c.ConfidenceScore = nil
	c.Disposition = ""
	require.NoError(t, repo.Upsert(c))

	got, err := repo.GetByID(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConfidenceScore)
	assert.Empty(t, got.Disposition)
}

func TestCandidateRepository_GetMissing(t *testing.T) {
	repo := NewCandidateRepository(testDB(t))

	got, err := repo.GetByID(models.CandidateID{EventID: "evt-1", DeclaredTag: "nope"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCandidateRepository_ListFilters(t *testing.T) {
	repo := NewCandidateRepository(testDB(t))

	a := sampleCandidate("a", 0.95)
	b := sampleCandidate("b", 0.6)
	b.Disposition = models.DispositionManualReview
	require.NoError(t, repo.Upsert(a))
	require.NoError(t, repo.Upsert(b))

	// Another event's candidate must not leak in
	other := sampleCandidate("a", 0.9)
	other.ID.EventID = "evt-2"
	require.NoError(t, repo.Upsert(other))

	all, total, err := repo.List("evt-1", models.CandidateFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID.DeclaredTag, "ordered by score descending")

	high, total, err := repo.List("evt-1", models.CandidateFilter{MinScore: 0.9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, high, 1)
	assert.Equal(t, "a", high[0].ID.DeclaredTag)

	review, _, err := repo.List("evt-1", models.CandidateFilter{Disposition: string(models.DispositionManualReview)})
	require.NoError(t, err)
	require.Len(t, review, 1)
	assert.Equal(t, "b", review[0].ID.DeclaredTag)
}

func TestSuggestionRepository_ReplaceSemantics(t *testing.T) {
	repo := NewSuggestionRepository(testDB(t))

	idA := models.CandidateID{EventID: "evt-1", DeclaredTag: "a"}
	idB := models.CandidateID{EventID: "evt-1", DeclaredTag: "b"}
	idC := models.CandidateID{EventID: "evt-1", DeclaredTag: "c"}

	first := []models.MergeSuggestion{
		models.NewMergeSuggestion(idA, idB, 8.0, models.ActionMerge, 0.8),
		models.NewMergeSuggestion(idA, idC, 18.0, models.ActionCreateVirtualGate, 0.7),
	}
	require.NoError(t, repo.Replace("evt-1", idA, first))

	got, err := repo.ListByEvent("evt-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ActionMerge, got[0].Action, "ordered by distance ascending")
	assert.Equal(t, idA, got[0].PrimaryID)
	assert.Equal(t, idB, got[0].CandidateID)

	// Replacement drops the pair with c entirely
	second := []models.MergeSuggestion{
		models.NewMergeSuggestion(idA, idB, 9.5, models.ActionMerge, 0.85),
	}
	require.NoError(t, repo.Replace("evt-1", idA, second))

	got, err = repo.ListByEvent("evt-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 9.5, got[0].DistanceMeters, 1e-9)
	assert.InDelta(t, 0.85, got[0].Confidence, 1e-9)
}

func TestSuggestionRepository_EmptyReplaceClears(t *testing.T) {
	repo := NewSuggestionRepository(testDB(t))

	idA := models.CandidateID{EventID: "evt-1", DeclaredTag: "a"}
	idB := models.CandidateID{EventID: "evt-1", DeclaredTag: "b"}

	require.NoError(t, repo.Replace("evt-1", idA,
		[]models.MergeSuggestion{models.NewMergeSuggestion(idA, idB, 8.0, models.ActionMerge, 0.8)}))
	require.NoError(t, repo.Replace("evt-1", idA, nil))

	got, err := repo.ListByEvent("evt-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
