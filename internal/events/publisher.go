// Package events is the in-process-to-client event bus: chat messages,
// countdown ticks and lifecycle changes are published as JSON and forwarded to
// connected websockets.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/swipehq/interview-assistant/internal/models"
)

// Channel carries all interview events.
const Channel = "interview:events"

const (
	TypeChat      = "chat"
	TypeTick      = "countdown_tick"
	TypeExpired   = "countdown_expired"
	TypeStatus    = "status"
	TypeCompleted = "completed"
)

type Event struct {
	Type        string              `json:"type"`
	Message     *models.ChatMessage `json:"message,omitempty"`
	QuestionID  string              `json:"question_id,omitempty"`
	RemainingMs int64               `json:"remaining_ms,omitempty"`
	Status      string              `json:"status,omitempty"`
	Score       int                 `json:"score,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// RedisPublisher fans events out over Redis pub/sub. Publish failures are
// swallowed: events are a convenience for live clients, never state.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	if p == nil || p.rdb == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = p.rdb.Publish(ctx, Channel, b).Err()
}
