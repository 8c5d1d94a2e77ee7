package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/eleven-am/zone-feedback/internal/shared"
	"github.com/redis/go-redis/v9"
)

const (
	sessionTTL = 30 * 24 * time.Hour
	metricsTTL = 7 * 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

// Resolve returns the session for id, refreshing it, or creates a new one when id is empty
// or unknown. A new session counts towards the zone's session metric.
func (s *Store) Resolve(ctx context.Context, id, zoneID string) (*Session, error) {
	if id != "" {
		sess, err := s.Get(ctx, id)
		if err == nil {
			sess.ZoneID = zoneID
			return sess, s.save(ctx, sess)
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:         shared.NewID("sess_"),
		ZoneID:     zoneID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.IncrementMetric(ctx, zoneID, MetricSessions, 1); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, SessionRedisKey(id)).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Touch(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.save(ctx, sess)
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	sess.LastSeenAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, sessionTTL).Err()
}

func (s *Store) IncrementMetric(ctx context.Context, zoneID string, field string, value int64) error {
	now := time.Now().UTC()
	key := MetricsRedisKey(zoneID, now.Format("2006-01-02"), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, field, value)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) RecordLatency(ctx context.Context, zoneID string, latencyMs int64) error {
	now := time.Now().UTC()
	key := MetricsRedisKey(zoneID, now.Format("2006-01-02"), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "total_latency_ms", latencyMs)
	pipe.HIncrBy(ctx, key, "latency_count", 1)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetMetrics returns the non-empty hourly buckets of the last hours, newest first.
func (s *Store) GetMetrics(ctx context.Context, zoneID string, hours int) ([]*Metrics, error) {
	now := time.Now().UTC()
	var metrics []*Metrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := MetricsRedisKey(zoneID, t.Format("2006-01-02"), t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}

		m := &Metrics{
			ZoneID:     zoneID,
			Date:       t.Format("2006-01-02"),
			Hour:       t.Hour(),
			Feedback:   parseCount(data, MetricFeedback),
			Degraded:   parseCount(data, MetricDegraded),
			Errors:     parseCount(data, MetricErrors),
			Dictations: parseCount(data, MetricDictations),
			Sessions:   parseCount(data, MetricSessions),
		}

		totalLatency := parseCount(data, "total_latency_ms")
		latencyCount := parseCount(data, "latency_count")
		if latencyCount > 0 {
			m.AvgLatencyMs = totalLatency / latencyCount
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func parseCount(data map[string]string, field string) int64 {
	v, _ := strconv.ParseInt(data[field], 10, 64)
	return v
}
