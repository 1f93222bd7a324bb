package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
)

func TestNewSnapshot(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cd := New("q1", 20*time.Second, start)

	require.Equal(t, "q1", cd.QuestionID)
	require.Equal(t, int64(20000), cd.DurationMs)
	require.Equal(t, start, cd.StartedAt)
	require.Equal(t, start.Add(20*time.Second), cd.Deadline)
	require.Equal(t, int64(20000), cd.RemainingMs)
}

func TestRemainingDerivesFromDeadline(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cd := New("q1", 20*time.Second, start)

	require.Equal(t, int64(20000), Remaining(&cd, start))
	require.Equal(t, int64(5000), Remaining(&cd, start.Add(15*time.Second)))
	require.Equal(t, int64(0), Remaining(&cd, start.Add(20*time.Second)))
	require.Equal(t, int64(0), Remaining(&cd, start.Add(time.Hour)), "never negative")
	require.Equal(t, int64(0), Remaining(nil, start))
}

type watcherProbe struct {
	ticks   []int64
	expires []string
}

func (p *watcherProbe) onTick(_ models.CountdownState, remainingMs int64) {
	p.ticks = append(p.ticks, remainingMs)
}

func (p *watcherProbe) onExpire(cd models.CountdownState) {
	p.expires = append(p.expires, cd.QuestionID)
}

func TestWatcherFiresExpireExactlyOnce(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := start
	probe := &watcherProbe{}

	w := NewWatcher(0)
	w.SetClock(func() time.Time { return now })
	w.OnTick = probe.onTick
	w.OnExpire = probe.onExpire

	w.Track(New("q1", 10*time.Second, start))

	w.Poll()
	now = start.Add(5 * time.Second)
	w.Poll()
	now = start.Add(11 * time.Second)
	w.Poll()
	w.Poll()
	w.Poll()

	require.Equal(t, []int64{10000, 5000, 0, 0, 0}, probe.ticks)
	require.Equal(t, []string{"q1"}, probe.expires, "polling past the deadline must not re-fire")
}

func TestWatcherTrackReArmsExpiry(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(time.Minute) // already past both deadlines
	probe := &watcherProbe{}

	w := NewWatcher(0)
	w.SetClock(func() time.Time { return now })
	w.OnExpire = probe.onExpire

	w.Track(New("q1", 10*time.Second, start))
	w.Poll()
	w.Track(New("q2", 10*time.Second, start))
	w.Poll()

	require.Equal(t, []string{"q1", "q2"}, probe.expires)
}

func TestWatcherClearStopsObservation(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	probe := &watcherProbe{}

	w := NewWatcher(0)
	w.SetClock(func() time.Time { return start.Add(time.Minute) })
	w.OnTick = probe.onTick
	w.OnExpire = probe.onExpire

	w.Track(New("q1", 10*time.Second, start))
	w.Clear()
	w.Poll()

	require.Empty(t, probe.ticks)
	require.Empty(t, probe.expires)
}
