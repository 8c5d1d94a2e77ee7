package dictation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

type Config struct {
	Recognizer Recognizer
	Permission PermissionService
	Dispatcher Dispatcher
	Publisher  Publisher
	Log        *slog.Logger
}

// Session is the lifecycle of dictation episodes for one widget. Every input runs to
// completion under mu; collaborators are only called with mu released, so a recognizer
// that reports synchronously from Stop or Abort cannot deadlock the session.
type Session struct {
	recognizer Recognizer
	permission PermissionService
	dispatcher Dispatcher
	publisher  Publisher

	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	// pub orders state changes with their publications. It is taken before mu and never
	// held across recognizer or dispatcher calls.
	pub sync.Mutex

	mu       sync.Mutex
	state    State
	rec      *Reconciler
	autoSend bool
	errMsg   string
	starting bool
	// opening is set while recognizer.Start runs. Stop and abort requests made meanwhile
	// are deferred until the stream exists.
	opening     bool
	stopPending bool
	// gen identifies the current stream; callbacks from older streams are dropped.
	gen uint64
}

func NewSession(cfg Config) (*Session, error) {
	if cfg.Recognizer == nil {
		return nil, errors.New("dictation: recognizer is required")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("dictation: dispatcher is required")
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		recognizer: cfg.Recognizer,
		permission: cfg.Permission,
		dispatcher: cfg.Dispatcher,
		publisher:  cfg.Publisher,
		ctx:        ctx,
		cancel:     cancel,
		log:        cfg.Log.With("component", "dictation"),
		state:      StateIdle,
		rec:        NewReconciler(),
	}, nil
}

// Start opens a recognition stream. It fails with ErrAlreadyActive unless the session is
// idle, so at most one stream exists per session.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle || s.starting || s.opening {
		s.mu.Unlock()
		return ErrAlreadyActive
	}
	s.starting = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if err := s.checkPermission(ctx); err != nil {
		s.pub.Lock()
		defer s.pub.Unlock()
		s.mu.Lock()
		if s.gen != gen || !s.starting {
			s.mu.Unlock()
			return ErrStartAborted
		}
		s.starting = false
		s.errMsg = errorMessages[ErrorPermissionDenied]
		msg := s.errMsg
		s.mu.Unlock()

		s.publisher.PublishError(msg)
		return err
	}

	s.pub.Lock()
	s.mu.Lock()
	if s.gen != gen || !s.starting {
		s.mu.Unlock()
		s.pub.Unlock()
		return ErrStartAborted
	}
	s.starting = false
	s.opening = true
	s.stopPending = false
	s.rec.Reset()
	s.autoSend = false
	s.errMsg = ""
	s.state = StateListening
	s.mu.Unlock()

	s.publisher.PublishText("")
	s.publisher.PublishError("")
	s.publisher.PublishState(StateListening)
	s.pub.Unlock()

	err := s.recognizer.Start(ctx, &stream{session: s, gen: gen})

	s.mu.Lock()
	s.opening = false
	cancelled := s.gen != gen
	stop := s.stopPending && !cancelled
	s.stopPending = false
	s.mu.Unlock()

	if err != nil {
		s.fail(gen, &StreamError{Kind: ErrorUnsupported, Code: "start-failed"})
		return fmt.Errorf("start recognizer: %w", err)
	}

	if cancelled {
		// Cancelled while the stream was opening; the abort was left to us.
		if err := s.recognizer.Abort(); err != nil {
			s.log.Warn("recognizer abort failed", "error", err)
		}
		return ErrStartAborted
	}

	s.log.Debug("dictation started", "generation", gen)
	if stop {
		s.stopStream(gen)
	}
	return nil
}

func (s *Session) checkPermission(ctx context.Context) error {
	if s.permission == nil {
		return nil
	}

	state, err := s.permission.Check(ctx)
	if err != nil {
		// The permission query is not available everywhere; the stream start will prompt.
		s.log.Debug("permission check failed", "error", err)
		return nil
	}
	if state != PermissionDenied {
		return nil
	}

	if err := s.permission.Request(ctx); err != nil {
		s.log.Warn("permission request failed", "error", err)
	}
	return ErrPermission
}

// StopAndSend asks the stream to end and marks the dictation for sending. The handoff
// happens when the stream confirms its end.
func (s *Session) StopAndSend() error {
	s.pub.Lock()
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		s.pub.Unlock()
		return ErrNotActive
	case StateStoppedPendingDecision:
		s.mu.Unlock()
		s.pub.Unlock()
		return nil
	}
	s.autoSend = true
	s.state = StateStoppedPendingDecision
	gen := s.gen
	opening := s.opening
	if opening {
		s.stopPending = true
	}
	s.mu.Unlock()

	s.publisher.PublishState(StateStoppedPendingDecision)
	s.pub.Unlock()

	if !opening {
		s.stopStream(gen)
	}
	return nil
}

func (s *Session) stopStream(gen uint64) {
	if err := s.recognizer.Stop(); err != nil {
		s.log.Warn("recognizer stop failed, finishing locally", "error", err)
		s.handleEnd(gen)
	}
}

// Cancel discards the dictation and aborts the stream. Calling it while idle with nothing
// retained does nothing.
func (s *Session) Cancel() {
	s.pub.Lock()
	s.mu.Lock()
	if s.state == StateIdle && !s.starting && s.rec.Len() == 0 && s.rec.Transcript().DisplayText == "" {
		s.mu.Unlock()
		s.pub.Unlock()
		return
	}
	streaming := s.state != StateIdle && !s.opening
	s.state = StateIdle
	s.starting = false
	s.autoSend = false
	s.errMsg = ""
	s.rec.Reset()
	s.gen++
	s.mu.Unlock()

	s.publisher.PublishText("")
	s.publisher.PublishState(StateIdle)
	s.pub.Unlock()

	if streaming {
		if err := s.recognizer.Abort(); err != nil {
			s.log.Warn("recognizer abort failed", "error", err)
		}
	}
}

// Discard drops text retained after a stream ended without a send, for example once the
// user sent it as a typed message.
func (s *Session) Discard() {
	s.pub.Lock()
	defer s.pub.Unlock()
	s.mu.Lock()
	if s.state != StateIdle || s.starting || s.opening {
		s.mu.Unlock()
		return
	}
	retained := s.rec.Transcript().DisplayText != ""
	s.rec.Reset()
	s.mu.Unlock()

	if retained {
		s.publisher.PublishText("")
	}
}

func (s *Session) handleResult(gen uint64, event RecognitionEvent) {
	s.pub.Lock()
	defer s.pub.Unlock()
	s.mu.Lock()
	if gen != s.gen || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	t, changed := s.rec.Apply(event)
	if !changed {
		s.mu.Unlock()
		return
	}
	hadErr := s.errMsg != ""
	s.errMsg = ""
	s.mu.Unlock()

	if hadErr {
		s.publisher.PublishError("")
	}
	s.publisher.PublishText(t.DisplayText)
}

func (s *Session) handleError(gen uint64, code string) {
	se := MapError(code)
	if se == nil {
		return
	}
	if !s.fail(gen, se) {
		return
	}

	s.log.Info("recognition error", "code", se.Code, "kind", se.Kind)
	if se.Kind == ErrorPermissionDenied && s.permission != nil {
		if err := s.permission.Request(s.ctx); err != nil {
			s.log.Warn("permission request failed", "error", err)
		}
	}
}

// fail moves the current stream to idle with an advisory. Any send intent is dropped first
// so a failure never sends stale text.
func (s *Session) fail(gen uint64, se *StreamError) bool {
	s.pub.Lock()
	defer s.pub.Unlock()
	s.mu.Lock()
	if gen != s.gen || s.state == StateIdle {
		s.mu.Unlock()
		return false
	}
	s.autoSend = false
	s.state = StateIdle
	s.errMsg = se.Message()
	if s.rec.Transcript().DisplayText == "" {
		s.rec.Reset()
	}
	msg := s.errMsg
	s.mu.Unlock()

	s.publisher.PublishError(msg)
	s.publisher.PublishState(StateIdle)
	return true
}

func (s *Session) handleEnd(gen uint64) {
	s.pub.Lock()
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.pub.Unlock()
		return
	}
	wasIdle := s.state == StateIdle
	send := s.autoSend
	s.autoSend = false
	s.state = StateIdle

	var text string
	t := s.rec.Transcript()
	switch {
	case send:
		text = strings.TrimSpace(t.FinalText)
		if text == "" {
			text = strings.TrimSpace(t.DisplayText)
		}
		s.rec.Reset()
	case t.DisplayText == "":
		s.rec.Reset()
	}
	s.mu.Unlock()

	if send {
		s.publisher.PublishText("")
	}
	if !wasIdle {
		s.publisher.PublishState(StateIdle)
	}
	s.pub.Unlock()

	if text == "" {
		return
	}

	s.log.Debug("dictation handed off", "chars", len(text))
	if err := s.dispatcher.Dispatch(s.ctx, text); err != nil {
		s.log.Warn("dispatch failed", "error", err)
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Transcript() Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Transcript()
}

func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.rec.Transcript()
	return Snapshot{
		State:       s.state,
		FinalText:   t.FinalText,
		DisplayText: t.DisplayText,
		Error:       s.errMsg,
		AutoSend:    s.autoSend,
	}
}

func (s *Session) Close() {
	s.Cancel()
	s.cancel()
}

type stream struct {
	session *Session
	gen     uint64
}

func (h *stream) OnResult(event RecognitionEvent) { h.session.handleResult(h.gen, event) }
func (h *stream) OnError(code string)             { h.session.handleError(h.gen, code) }
func (h *stream) OnEnd()                          { h.session.handleEnd(h.gen) }

type nopPublisher struct{}

func (nopPublisher) PublishText(string)  {}
func (nopPublisher) PublishState(State)  {}
func (nopPublisher) PublishError(string) {}
