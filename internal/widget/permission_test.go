package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/zone-feedback/internal/dictation"
)

type recordingSender struct {
	mu     sync.Mutex
	frames []ServerFrame
	err    error
	sent   chan ServerFrame
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan ServerFrame, 64)}
}

func (s *recordingSender) Send(frame ServerFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	s.sent <- frame
	return nil
}

func (s *recordingSender) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Type
	}
	return out
}

func TestBrowserPermission_Check(t *testing.T) {
	sender := newRecordingSender()
	p := newBrowserPermission(sender, time.Second)

	go func() {
		<-sender.sent
		p.resolve("granted")
	}()

	state, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if state != dictation.PermissionGranted {
		t.Errorf("expected granted, got %s", state)
	}
	if types := sender.types(); len(types) != 1 || types[0] != FramePermissionCheck {
		t.Errorf("unexpected frames %v", types)
	}
}

func TestBrowserPermission_Timeout(t *testing.T) {
	p := newBrowserPermission(newRecordingSender(), 20*time.Millisecond)

	_, err := p.Check(context.Background())
	if !errors.Is(err, errPermissionTimeout) {
		t.Errorf("expected timeout, got %v", err)
	}
	if len(p.waiters) != 0 {
		t.Error("timed out waiter should be removed")
	}
}

func TestBrowserPermission_ContextCancel(t *testing.T) {
	p := newBrowserPermission(newRecordingSender(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Check(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBrowserPermission_SendFails(t *testing.T) {
	sender := newRecordingSender()
	sender.err = ErrConnClosed
	p := newBrowserPermission(sender, time.Second)

	if _, err := p.Check(context.Background()); !errors.Is(err, ErrConnClosed) {
		t.Errorf("expected ErrConnClosed, got %v", err)
	}
	if err := p.Request(context.Background()); !errors.Is(err, ErrConnClosed) {
		t.Errorf("expected ErrConnClosed, got %v", err)
	}
}

func TestBrowserPermission_ResolveWithoutWaiters(t *testing.T) {
	p := newBrowserPermission(newRecordingSender(), time.Second)
	p.resolve("denied")
}

func TestParsePermissionState(t *testing.T) {
	tests := map[string]dictation.PermissionState{
		"granted": dictation.PermissionGranted,
		"denied":  dictation.PermissionDenied,
		"prompt":  dictation.PermissionPrompt,
		"":        dictation.PermissionUnknown,
		"weird":   dictation.PermissionUnknown,
	}
	for in, want := range tests {
		if got := parsePermissionState(in); got != want {
			t.Errorf("parsePermissionState(%q) = %s, want %s", in, got, want)
		}
	}
}
