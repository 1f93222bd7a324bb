package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
)

func record(id string, score int, completedAt time.Time) models.CandidateRecord {
	return models.CandidateRecord{
		ID:          id,
		Profile:     models.CandidateProfile{Name: "Candidate " + id},
		Score:       score,
		CompletedAt: completedAt,
	}
}

func ids(records []models.CandidateRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestRankedOrdersByScoreDesc(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r := New()
	r.Upsert(record("low", 40, now))
	r.Upsert(record("high", 90, now))
	r.Upsert(record("mid", 70, now))

	require.Equal(t, []string{"high", "mid", "low"}, ids(r.Ranked()))
}

func TestTieBrokenByRecency(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r := New()

	// insertion order must not matter: the later completion wins the tie
	r.Upsert(record("older", 70, base))
	r.Upsert(record("newer", 70, base.Add(time.Hour)))
	require.Equal(t, []string{"newer", "older"}, ids(r.Ranked()))

	r2 := New()
	r2.Upsert(record("newer", 70, base.Add(time.Hour)))
	r2.Upsert(record("older", 70, base))
	require.Equal(t, []string{"newer", "older"}, ids(r2.Ranked()))
}

func TestUpsertOverwritesAndReRanks(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r := New()
	r.Upsert(record("a", 50, now))
	r.Upsert(record("b", 80, now))
	require.Equal(t, []string{"b", "a"}, ids(r.Ranked()))

	// re-interview: same id, higher score
	r.Upsert(record("a", 95, now.Add(time.Hour)))

	require.Equal(t, 2, r.Len())
	require.Equal(t, []string{"a", "b"}, ids(r.Ranked()))
	got, ok := r.Get("a")
	require.True(t, ok)
	require.Equal(t, 95, got.Score)
}

func TestClear(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r := New()
	r.Upsert(record("a", 50, now))
	r.Clear()

	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Ranked())
	_, ok := r.Get("a")
	require.False(t, ok)
}
