package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/reply"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/shared"
	"github.com/eleven-am/zone-feedback/internal/zone"
)

var ErrUnknownZone = errors.New("unknown zone")

const degradedWarning = "The assistant is unavailable right now. Your feedback was still recorded."

const systemPrompt = `You are the comfort assistant for %s, an air-conditioned zone in a building.
Occupants tell you how the temperature, airflow or noise feels. Acknowledge the feedback in one
or two short sentences, ask at most one clarifying question, and never promise a specific setpoint.`

type ZoneLookup interface {
	Get(ctx context.Context, id string) (*zone.Zone, error)
}

type MetricsRecorder interface {
	IncrementMetric(ctx context.Context, zoneID string, field string, value int64) error
	RecordLatency(ctx context.Context, zoneID string, latencyMs int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Config struct {
	Zones     ZoneLookup
	Generator reply.Generator
	Fallback  reply.Generator
	Metrics   MetricsRecorder
	Events    EventPublisher
	Window    dispatch.Window
	Log       *slog.Logger
}

// Service answers feedback messages. A failing generator degrades the reply instead of
// failing the request.
type Service struct {
	zones     ZoneLookup
	generator reply.Generator
	fallback  reply.Generator
	metrics   MetricsRecorder
	events    EventPublisher
	window    dispatch.Window
	log       *slog.Logger
}

func NewService(cfg Config) *Service {
	if cfg.Fallback == nil {
		cfg.Fallback = reply.Fallback{}
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Service{
		zones:     cfg.Zones,
		generator: cfg.Generator,
		fallback:  cfg.Fallback,
		metrics:   cfg.Metrics,
		events:    cfg.Events,
		window:    cfg.Window,
		log:       cfg.Log.With("component", "feedback"),
	}
}

func (s *Service) Send(ctx context.Context, req dispatch.Request) (dispatch.Reply, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.ZoneID = strings.TrimSpace(req.ZoneID)
	if err := req.Validate(); err != nil {
		return dispatch.Reply{}, err
	}

	z, err := s.zones.Get(ctx, req.ZoneID)
	if errors.Is(err, shared.ErrNotFound) {
		return dispatch.Reply{}, ErrUnknownZone
	}
	if err != nil {
		return dispatch.Reply{}, fmt.Errorf("lookup zone: %w", err)
	}

	prompt := buildPrompt(z, s.window.Apply(req.History), req.Message)

	started := time.Now()
	out := dispatch.Reply{}
	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Warn("reply generation failed, using fallback", "error", err, "zone_id", z.ID)
		text, err = s.fallback.Generate(ctx, prompt)
		if err != nil {
			return dispatch.Reply{}, fmt.Errorf("fallback reply: %w", err)
		}
		out.Degraded = true
		out.Warning = degradedWarning
	}
	out.Text = text

	s.record(ctx, z.ID, out.Degraded, time.Since(started))
	s.publish(ctx, Event{
		Type:      EventFeedbackReceived,
		ZoneID:    z.ID,
		SessionID: req.SessionID,
		Message:   req.Message,
		Reply:     out.Text,
		Degraded:  out.Degraded,
		At:        time.Now().UTC(),
	})

	return out, nil
}

func (s *Service) generate(ctx context.Context, p reply.Prompt) (string, error) {
	if s.generator == nil {
		return "", errors.New("no reply generator configured")
	}
	return s.generator.Generate(ctx, p)
}

func (s *Service) record(ctx context.Context, zoneID string, degraded bool, latency time.Duration) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.IncrementMetric(ctx, zoneID, session.MetricFeedback, 1); err != nil {
		s.log.Warn("failed to record feedback metric", "error", err, "zone_id", zoneID)
	}
	if degraded {
		if err := s.metrics.IncrementMetric(ctx, zoneID, session.MetricDegraded, 1); err != nil {
			s.log.Warn("failed to record degraded metric", "error", err, "zone_id", zoneID)
		}
		return
	}
	if err := s.metrics.RecordLatency(ctx, zoneID, latency.Milliseconds()); err != nil {
		s.log.Warn("failed to record latency", "error", err, "zone_id", zoneID)
	}
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish feedback event", "error", err, "zone_id", event.ZoneID)
	}
}

func buildPrompt(z *zone.Zone, history []dispatch.Turn, message string) reply.Prompt {
	var b strings.Builder
	for _, t := range history {
		if t.Role == dispatch.RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("Occupant: ")
		}
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	b.WriteString("Occupant: ")
	b.WriteString(message)
	b.WriteString("\nAssistant:")

	return reply.Prompt{
		System: fmt.Sprintf(systemPrompt, z.DisplayName()),
		Text:   b.String(),
		Zone:   z.DisplayName(),
	}
}
