package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Sender delivers one request to the reply pipeline.
type Sender interface {
	Send(ctx context.Context, req Request) (Reply, error)
}

type DispatcherConfig struct {
	Sender       Sender
	Conversation *Conversation
	ZoneID       string
	SessionID    string
	Window       Window
	Log          *slog.Logger
}

// Dispatcher hands finalized messages of one widget to a Sender, recording the exchange in
// the conversation. It never retries.
type Dispatcher struct {
	sender    Sender
	conv      *Conversation
	zoneID    string
	sessionID string
	window    Window
	log       *slog.Logger
}

func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.ZoneID == "" {
		return nil, ErrMissingZone
	}
	if cfg.Sender == nil {
		return nil, errors.New("dispatch: sender is required")
	}
	if cfg.Conversation == nil {
		cfg.Conversation = NewConversation(nil)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Dispatcher{
		sender:    cfg.Sender,
		conv:      cfg.Conversation,
		zoneID:    cfg.ZoneID,
		sessionID: cfg.SessionID,
		window:    cfg.Window.normalized(),
		log:       cfg.Log.With("component", "dispatcher", "zone_id", cfg.ZoneID),
	}, nil
}

// Send appends the user message, calls the sender once and appends the outcome. A failed
// call adds an error entry; the user message stays in the conversation.
func (d *Dispatcher) Send(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	req := Request{
		Message:   text,
		ZoneID:    d.zoneID,
		SessionID: d.sessionID,
		History:   d.conv.History(d.window),
	}
	d.conv.Append(RoleUser, text)

	reply, err := d.sender.Send(ctx, req)
	if err != nil {
		d.log.Warn("feedback send failed", "error", err)
		d.conv.Append(RoleError, failureText(err))
		return Reply{}, err
	}

	d.conv.Append(RoleAssistant, reply.Text)
	if reply.Degraded {
		d.conv.Append(RoleWarning, reply.Warning)
	}
	return reply, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, text string) error {
	_, err := d.Send(ctx, text)
	return err
}

func (d *Dispatcher) Conversation() *Conversation {
	return d.conv
}

func failureText(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return "Sorry, your feedback could not be sent: " + httpErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Sorry, the assistant took too long to answer. Please try again."
	}
	return "Sorry, your feedback could not be sent. Please try again."
}
