package widget

import (
	"context"
	"sync"

	"github.com/eleven-am/zone-feedback/internal/dictation"
)

type frameSender interface {
	Send(frame ServerFrame) error
}

// browserRecognizer drives the speech recognizer running in the widget page. Every stream
// gets an id that the page echoes on its recognition frames; frames for any other stream
// are dropped, so a late end from an aborted stream cannot close its successor.
type browserRecognizer struct {
	conn frameSender
	lang string

	mu      sync.Mutex
	stream  uint64
	handler dictation.StreamHandler
}

func newBrowserRecognizer(conn frameSender, lang string) *browserRecognizer {
	return &browserRecognizer{conn: conn, lang: lang}
}

func (r *browserRecognizer) Start(_ context.Context, h dictation.StreamHandler) error {
	r.mu.Lock()
	r.stream++
	id := r.stream
	r.handler = h
	r.mu.Unlock()

	err := r.conn.Send(ServerFrame{
		Type: FrameRecognitionStart,
		Payload: RecognitionPayload{
			Stream:         id,
			Continuous:     true,
			InterimResults: true,
			Lang:           r.lang,
		},
	})
	if err != nil {
		r.mu.Lock()
		if r.stream == id {
			r.handler = nil
		}
		r.mu.Unlock()
	}
	return err
}

func (r *browserRecognizer) Stop() error {
	r.mu.Lock()
	id := r.stream
	r.mu.Unlock()
	return r.conn.Send(ServerFrame{Type: FrameRecognitionStop, Payload: StreamPayload{Stream: id}})
}

func (r *browserRecognizer) Abort() error {
	r.mu.Lock()
	id := r.stream
	r.handler = nil
	r.mu.Unlock()
	return r.conn.Send(ServerFrame{Type: FrameRecognitionAbort, Payload: StreamPayload{Stream: id}})
}

func (r *browserRecognizer) current() dictation.StreamHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler
}

func (r *browserRecognizer) handlerFor(stream uint64) dictation.StreamHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stream != r.stream {
		return nil
	}
	return r.handler
}

func (r *browserRecognizer) deliverResult(stream uint64, results []dictation.ResultSegment) {
	if h := r.handlerFor(stream); h != nil {
		h.OnResult(dictation.RecognitionEvent{Results: results})
	}
}

func (r *browserRecognizer) deliverError(stream uint64, code string) {
	if h := r.handlerFor(stream); h != nil {
		h.OnError(code)
	}
}

func (r *browserRecognizer) deliverEnd(stream uint64) {
	r.mu.Lock()
	var h dictation.StreamHandler
	if stream == r.stream {
		h = r.handler
		r.handler = nil
	}
	r.mu.Unlock()

	if h != nil {
		h.OnEnd()
	}
}
