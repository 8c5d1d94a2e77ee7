package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventsChannel         = "feedback:events"
	EventFeedbackReceived = "feedback.received"
)

type Event struct {
	Type      string    `json:"type"`
	ZoneID    string    `json:"zone_id"`
	SessionID string    `json:"session_id,omitempty"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Degraded  bool      `json:"degraded"`
	At        time.Time `json:"at"`
}

// RedisPublisher fans feedback events out on a redis channel for downstream consumers such
// as building management integrations.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(redisClient *redis.Client, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		redis:   redisClient,
		channel: EventsChannel,
		logger:  logger.With("component", "feedback_events"),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("published feedback event", "zone_id", event.ZoneID, "session_id", event.SessionID)
	return nil
}
