package session

import (
	"strconv"
	"time"
)

// Session identifies one browser across widget connections.
type Session struct {
	ID         string    `json:"id"`
	ZoneID     string    `json:"zone_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func (s *Session) RedisKey() string {
	return SessionRedisKey(s.ID)
}

func SessionRedisKey(id string) string {
	return "widget:session:" + id
}

const (
	MetricFeedback   = "feedback"
	MetricDegraded   = "degraded"
	MetricErrors     = "errors"
	MetricDictations = "dictations"
	MetricSessions   = "sessions"
)

type Metrics struct {
	ZoneID       string `json:"zone_id"`
	Date         string `json:"date"`
	Hour         int    `json:"hour"`
	Feedback     int64  `json:"feedback"`
	Degraded     int64  `json:"degraded"`
	Errors       int64  `json:"errors"`
	Dictations   int64  `json:"dictations"`
	Sessions     int64  `json:"sessions"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

func MetricsRedisKey(zoneID, date string, hour int) string {
	return "zone:" + zoneID + ":metrics:" + date + ":" + strconv.Itoa(hour)
}
