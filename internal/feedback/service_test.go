package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/reply"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGenerator struct {
	prompts []reply.Prompt
	text    string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, p reply.Prompt) (string, error) {
	g.prompts = append(g.prompts, p)
	return g.text, g.err
}

type testEnv struct {
	service  *Service
	gen      *fakeGenerator
	sessions *session.Store
	redis    *redis.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	zones := zone.NewStore(db)
	if err := zones.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	zones.Create(context.Background(), &zone.Zone{ID: "l3-east", Name: "Level 3 East"})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := &fakeGenerator{text: "Thanks, we'll look into the airflow."}
	sessions := session.NewStore(client)

	svc := NewService(Config{
		Zones:     zones,
		Generator: gen,
		Metrics:   sessions,
		Events:    NewRedisPublisher(client, log),
		Window:    dispatch.Window{Turns: 2, Chars: 10},
		Log:       log,
	})
	return &testEnv{service: svc, gen: gen, sessions: sessions, redis: client}
}

func TestService_Send(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.service.Send(context.Background(), dispatch.Request{
		Message: " it's stuffy ",
		ZoneID:  "l3-east",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if out.Text != "Thanks, we'll look into the airflow." || out.Degraded {
		t.Errorf("unexpected reply %+v", out)
	}

	p := env.gen.prompts[0]
	if !strings.Contains(p.System, "Level 3 East") {
		t.Errorf("expected zone name in system prompt, got %q", p.System)
	}
	if !strings.HasSuffix(p.Text, "Occupant: it's stuffy\nAssistant:") {
		t.Errorf("unexpected prompt text %q", p.Text)
	}

	metrics, _ := env.sessions.GetMetrics(context.Background(), "l3-east", 1)
	if len(metrics) != 1 || metrics[0].Feedback != 1 || metrics[0].Degraded != 0 {
		t.Errorf("unexpected metrics %+v", metrics)
	}
}

func TestService_SendWindowsHistory(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.service.Send(context.Background(), dispatch.Request{
		Message: "still warm",
		ZoneID:  "l3-east",
		History: []dispatch.Turn{
			{Role: "user", Text: "dropped turn"},
			{Role: "user", Text: "too warm in here today"},
			{Role: "bot", Text: "noted"},
		},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	text := env.gen.prompts[0].Text
	if strings.Contains(text, "dropped") {
		t.Error("history beyond the turn window must be dropped")
	}
	if !strings.Contains(text, "Occupant: too warm i\n") {
		t.Errorf("expected truncated turn, got %q", text)
	}
	if !strings.Contains(text, "Assistant: noted\n") {
		t.Errorf("expected normalized assistant role, got %q", text)
	}
}

func TestService_SendDegraded(t *testing.T) {
	env := setupTestEnv(t)
	env.gen.err = errors.New("upstream down")

	out, err := env.service.Send(context.Background(), dispatch.Request{Message: "cold", ZoneID: "l3-east"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !out.Degraded || out.Warning == "" {
		t.Errorf("expected degraded reply, got %+v", out)
	}
	if !strings.Contains(out.Text, "Level 3 East") {
		t.Errorf("expected fallback text, got %q", out.Text)
	}

	metrics, _ := env.sessions.GetMetrics(context.Background(), "l3-east", 1)
	if len(metrics) != 1 || metrics[0].Degraded != 1 {
		t.Errorf("unexpected metrics %+v", metrics)
	}
}

func TestService_SendErrors(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name string
		req  dispatch.Request
		want error
	}{
		{"empty message", dispatch.Request{Message: "  ", ZoneID: "l3-east"}, dispatch.ErrEmptyMessage},
		{"missing zone", dispatch.Request{Message: "hi"}, dispatch.ErrMissingZone},
		{"unknown zone", dispatch.Request{Message: "hi", ZoneID: "nowhere"}, ErrUnknownZone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.service.Send(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(env.gen.prompts) != 0 {
		t.Error("invalid requests must not reach the generator")
	}
}

func TestService_PublishesEvent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	sub := env.redis.Subscribe(ctx, EventsChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := env.service.Send(ctx, dispatch.Request{Message: "noisy vent", ZoneID: "l3-east", SessionID: "sess_1"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}

	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != EventFeedbackReceived || event.ZoneID != "l3-east" || event.SessionID != "sess_1" {
		t.Errorf("unexpected event %+v", event)
	}
	if event.Message != "noisy vent" {
		t.Errorf("unexpected message %q", event.Message)
	}
}
