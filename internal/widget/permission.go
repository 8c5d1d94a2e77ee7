package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eleven-am/zone-feedback/internal/dictation"
)

var errPermissionTimeout = errors.New("permission check timed out")

const defaultPermissionTimeout = 5 * time.Second

// browserPermission asks the widget page for the microphone permission state. Answers
// arrive on the read goroutine and are handed to every pending check.
type browserPermission struct {
	conn    frameSender
	timeout time.Duration

	mu      sync.Mutex
	waiters []chan dictation.PermissionState
}

func newBrowserPermission(conn frameSender, timeout time.Duration) *browserPermission {
	if timeout <= 0 {
		timeout = defaultPermissionTimeout
	}
	return &browserPermission{conn: conn, timeout: timeout}
}

func (p *browserPermission) Check(ctx context.Context) (dictation.PermissionState, error) {
	ch := make(chan dictation.PermissionState, 1)
	p.mu.Lock()
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	if err := p.conn.Send(ServerFrame{Type: FramePermissionCheck}); err != nil {
		p.remove(ch)
		return dictation.PermissionUnknown, err
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case state := <-ch:
		return state, nil
	case <-timer.C:
		p.remove(ch)
		return dictation.PermissionUnknown, errPermissionTimeout
	case <-ctx.Done():
		p.remove(ch)
		return dictation.PermissionUnknown, ctx.Err()
	}
}

func (p *browserPermission) Request(_ context.Context) error {
	return p.conn.Send(ServerFrame{Type: FramePermissionRequest})
}

func (p *browserPermission) resolve(state string) {
	p.mu.Lock()
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	ps := parsePermissionState(state)
	for _, ch := range waiters {
		ch <- ps
	}
}

func (p *browserPermission) remove(ch chan dictation.PermissionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w == ch {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

func parsePermissionState(state string) dictation.PermissionState {
	switch dictation.PermissionState(state) {
	case dictation.PermissionGranted, dictation.PermissionDenied, dictation.PermissionPrompt:
		return dictation.PermissionState(state)
	default:
		return dictation.PermissionUnknown
	}
}
