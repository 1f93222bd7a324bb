package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/swipehq/interview-assistant/internal/countdown"
	"github.com/swipehq/interview-assistant/internal/events"
	"github.com/swipehq/interview-assistant/internal/models"
)

// CountdownWorker runs the per-question time box in the background: it polls
// the active countdown, publishes ticks to the event bus, and invokes OnExpire
// exactly once when the deadline passes. Tracking a new countdown re-arms it;
// clearing stops the ticks.
type CountdownWorker struct {
	// OnExpire is invoked from the polling goroutine; the handler is expected
	// to serialize against the session's single-writer lock.
	OnExpire func(questionID string)

	watcher   *countdown.Watcher
	publisher events.Publisher
	logger    *logrus.Logger
}

func NewCountdownWorker(publisher events.Publisher, logger *logrus.Logger, interval time.Duration) *CountdownWorker {
	w := &CountdownWorker{
		watcher:   countdown.NewWatcher(interval),
		publisher: publisher,
		logger:    logger,
	}
	w.watcher.OnTick = w.tick
	w.watcher.OnExpire = w.expire
	return w
}

func (w *CountdownWorker) Start(ctx context.Context) {
	go w.watcher.Run(ctx)
}

func (w *CountdownWorker) Track(cd models.CountdownState) {
	w.watcher.Track(cd)
}

func (w *CountdownWorker) Clear() {
	w.watcher.Clear()
}

// Poll forces one observation, used after restoring a session whose deadline
// may already have passed while the process was unloaded.
func (w *CountdownWorker) Poll() {
	w.watcher.Poll()
}

func (w *CountdownWorker) tick(cd models.CountdownState, remainingMs int64) {
	if w.publisher == nil {
		return
	}
	w.publisher.Publish(context.Background(), events.Event{
		Type:        events.TypeTick,
		QuestionID:  cd.QuestionID,
		RemainingMs: remainingMs,
	})
}

func (w *CountdownWorker) expire(cd models.CountdownState) {
	if w.logger != nil {
		w.logger.WithField("question_id", cd.QuestionID).Info("countdown expired")
	}
	if w.publisher != nil {
		w.publisher.Publish(context.Background(), events.Event{
			Type:       events.TypeExpired,
			QuestionID: cd.QuestionID,
		})
	}
	if w.OnExpire != nil {
		w.OnExpire(cd.QuestionID)
	}
}
