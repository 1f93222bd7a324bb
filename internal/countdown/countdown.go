// Package countdown tracks the active per-question time box. Remaining time
// is derived from the snapshot's absolute deadline, so a countdown survives a
// process restart: wall-clock time that passed while unloaded counts down.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/swipehq/interview-assistant/internal/models"
)

// DefaultInterval is fine enough not to visibly skip the zero crossing.
const DefaultInterval = 250 * time.Millisecond

// New builds a countdown snapshot for a question.
func New(questionID string, duration time.Duration, now time.Time) models.CountdownState {
	return models.CountdownState{
		QuestionID:  questionID,
		DurationMs:  duration.Milliseconds(),
		StartedAt:   now,
		Deadline:    now.Add(duration),
		RemainingMs: duration.Milliseconds(),
	}
}

// Remaining returns max(0, deadline-now) in milliseconds.
func Remaining(cd *models.CountdownState, now time.Time) int64 {
	if cd == nil {
		return 0
	}
	diff := cd.Deadline.Sub(now).Milliseconds()
	if diff < 0 {
		return 0
	}
	return diff
}

// Watcher polls one countdown snapshot at a fixed interval. OnTick fires every
// poll with the remaining milliseconds; OnExpire fires exactly once per
// tracked snapshot even though polling continues past the deadline. Replacing
// the snapshot resets the fired flag; clearing it stops ticking.
type Watcher struct {
	OnTick   func(cd models.CountdownState, remainingMs int64)
	OnExpire func(cd models.CountdownState)

	interval time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cd    *models.CountdownState
	fired bool
}

func NewWatcher(interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the watcher's time source.
func (w *Watcher) SetClock(now func() time.Time) { w.now = now }

// Track replaces the watched snapshot and re-arms expiry.
func (w *Watcher) Track(cd models.CountdownState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := cd
	w.cd = &c
	w.fired = false
}

// Clear stops tracking; polling becomes a no-op.
func (w *Watcher) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cd = nil
	w.fired = false
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll performs one observation. Exposed so tests and restarts can drive the
// watcher without waiting on the ticker.
func (w *Watcher) Poll() {
	w.mu.Lock()
	cd := w.cd
	if cd == nil {
		w.mu.Unlock()
		return
	}
	snapshot := *cd
	remaining := Remaining(&snapshot, w.now())
	expired := remaining <= 0 && !w.fired
	if expired {
		w.fired = true
	}
	onTick, onExpire := w.OnTick, w.OnExpire
	w.mu.Unlock()

	if onTick != nil {
		onTick(snapshot, remaining)
	}
	if expired && onExpire != nil {
		onExpire(snapshot)
	}
}
