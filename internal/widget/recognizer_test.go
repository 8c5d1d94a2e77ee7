package widget

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/eleven-am/zone-feedback/internal/dictation"
)

type recordingHandler struct {
	results []dictation.RecognitionEvent
	errors  []string
	ends    int
}

func (h *recordingHandler) OnResult(e dictation.RecognitionEvent) { h.results = append(h.results, e) }
func (h *recordingHandler) OnError(code string)                   { h.errors = append(h.errors, code) }
func (h *recordingHandler) OnEnd()                                { h.ends++ }

func streamOf(t *testing.T, frame ServerFrame) uint64 {
	t.Helper()
	switch p := frame.Payload.(type) {
	case RecognitionPayload:
		return p.Stream
	case StreamPayload:
		return p.Stream
	}
	t.Fatalf("frame %s carries no stream id", frame.Type)
	return 0
}

func TestBrowserRecognizer_Stream(t *testing.T) {
	sender := newRecordingSender()
	r := newBrowserRecognizer(sender, "en-AU")
	h := &recordingHandler{}

	if err := r.Start(context.Background(), h); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	first := <-sender.sent
	payload, ok := first.Payload.(RecognitionPayload)
	if first.Type != FrameRecognitionStart || !ok || payload.Lang != "en-AU" || !payload.InterimResults {
		t.Errorf("unexpected start frame %+v", first)
	}
	id := payload.Stream
	if id == 0 {
		t.Fatal("start frame must carry a stream id")
	}

	r.deliverResult(id, []dictation.ResultSegment{{Text: "hello", IsFinal: true}})
	r.deliverError(id, "network")
	r.deliverEnd(id)
	r.deliverEnd(id)
	r.deliverResult(id, []dictation.ResultSegment{{Text: "late"}})

	if len(h.results) != 1 || len(h.errors) != 1 || h.ends != 1 {
		t.Errorf("unexpected deliveries %+v", h)
	}
}

func TestBrowserRecognizer_ForeignStreamDropped(t *testing.T) {
	sender := newRecordingSender()
	r := newBrowserRecognizer(sender, "")
	h := &recordingHandler{}

	r.Start(context.Background(), h)
	id := streamOf(t, <-sender.sent)

	r.deliverResult(id+1, []dictation.ResultSegment{{Text: "other"}})
	r.deliverError(0, "network")
	r.deliverEnd(id + 1)

	if len(h.results) != 0 || len(h.errors) != 0 || h.ends != 0 {
		t.Errorf("frames for other streams must be dropped, got %+v", h)
	}
	if r.current() != h {
		t.Error("a foreign end must not detach the current stream")
	}
}

func TestBrowserRecognizer_StopAndAbortCarryStream(t *testing.T) {
	sender := newRecordingSender()
	r := newBrowserRecognizer(sender, "")

	r.Start(context.Background(), &recordingHandler{})
	id := streamOf(t, <-sender.sent)

	r.Stop()
	if stop := <-sender.sent; stop.Type != FrameRecognitionStop || streamOf(t, stop) != id {
		t.Errorf("unexpected stop frame %+v", stop)
	}
	r.Abort()
	if abort := <-sender.sent; abort.Type != FrameRecognitionAbort || streamOf(t, abort) != id {
		t.Errorf("unexpected abort frame %+v", abort)
	}
}

func TestBrowserRecognizer_AbortDetaches(t *testing.T) {
	sender := newRecordingSender()
	r := newBrowserRecognizer(sender, "")
	h := &recordingHandler{}

	r.Start(context.Background(), h)
	id := streamOf(t, <-sender.sent)
	r.Abort()
	r.deliverEnd(id)

	if h.ends != 0 {
		t.Error("aborted stream must not receive callbacks")
	}
	types := sender.types()
	if len(types) != 2 || types[1] != FrameRecognitionAbort {
		t.Errorf("unexpected frames %v", types)
	}
}

func TestBrowserRecognizer_StartFails(t *testing.T) {
	sender := newRecordingSender()
	sender.err = ErrConnClosed
	r := newBrowserRecognizer(sender, "")

	if err := r.Start(context.Background(), &recordingHandler{}); err == nil {
		t.Fatal("expected error")
	}
	if r.current() != nil {
		t.Error("handler should be cleared when start fails")
	}
	if err := r.Stop(); err == nil {
		t.Error("expected Stop to report the closed connection")
	}
}

type collectingDispatcher struct {
	mu    sync.Mutex
	texts []string
}

func (d *collectingDispatcher) Dispatch(_ context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, text)
	return nil
}

func (d *collectingDispatcher) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.texts...)
}

func newRecognizerSession(t *testing.T) (*dictation.Session, *browserRecognizer, *recordingSender, *collectingDispatcher) {
	t.Helper()
	sender := newRecordingSender()
	rec := newBrowserRecognizer(sender, "")
	dispatcher := &collectingDispatcher{}
	s, err := dictation.NewSession(dictation.Config{
		Recognizer: rec,
		Dispatcher: dispatcher,
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s, rec, sender, dispatcher
}

// nextStream starts a dictation and returns the id of the stream it opened.
func nextStream(t *testing.T, s *dictation.Session, sender *recordingSender) uint64 {
	t.Helper()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for {
		select {
		case f := <-sender.sent:
			if f.Type == FrameRecognitionStart {
				return streamOf(t, f)
			}
		default:
			t.Fatal("no recognition.start frame sent")
		}
	}
}

func TestSession_LateEndAfterCancelAndRestart(t *testing.T) {
	s, rec, sender, dispatcher := newRecognizerSession(t)

	first := nextStream(t, s, sender)
	rec.deliverResult(first, []dictation.ResultSegment{{Text: "too cold", IsFinal: true}})
	s.Cancel()

	second := nextStream(t, s, sender)
	if second == first {
		t.Fatal("restart must open a new stream id")
	}
	rec.deliverEnd(first)
	if s.State() != dictation.StateListening {
		t.Fatalf("late end of the aborted stream stopped the new one: state=%s", s.State())
	}

	rec.deliverResult(second, []dictation.ResultSegment{{Text: "make it warmer", IsFinal: true}})
	if err := s.StopAndSend(); err != nil {
		t.Fatalf("StopAndSend: %v", err)
	}
	rec.deliverEnd(second)

	if got := dispatcher.sent(); len(got) != 1 || got[0] != "make it warmer" {
		t.Errorf("expected the second dictation to be sent once, got %v", got)
	}
}

func TestSession_TrailingEndAfterErrorAndRestart(t *testing.T) {
	s, rec, sender, dispatcher := newRecognizerSession(t)

	first := nextStream(t, s, sender)
	rec.deliverError(first, "network")
	if s.State() != dictation.StateIdle {
		t.Fatalf("expected idle after error, got %s", s.State())
	}

	second := nextStream(t, s, sender)
	rec.deliverEnd(first)
	rec.deliverError(first, "no-speech")
	if s.State() != dictation.StateListening || s.Error() != "" {
		t.Fatalf("old stream leaked into the new one: state=%s error=%q", s.State(), s.Error())
	}

	rec.deliverResult(second, []dictation.ResultSegment{{Text: "fan is rattling", IsFinal: true}})
	s.StopAndSend()
	rec.deliverEnd(second)

	if got := dispatcher.sent(); len(got) != 1 || got[0] != "fan is rattling" {
		t.Errorf("expected one dispatch of the new dictation, got %v", got)
	}
}
