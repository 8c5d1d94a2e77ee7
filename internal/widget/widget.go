package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/zone-feedback/internal/dictation"
	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/speech"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/google/uuid"
)

const (
	eventBuffer = 64
	sendQueue   = 4

	queueFullText = "Please wait for your previous message to finish sending."
)

var errSendQueueFull = errors.New("send queue full")

type MetricsRecorder interface {
	IncrementMetric(ctx context.Context, zoneID string, field string, value int64) error
}

type Config struct {
	Conn              *Conn
	Zone              *zone.Zone
	SessionID         string
	Sender            dispatch.Sender
	Window            dispatch.Window
	Segmenter         *speech.Segmenter
	Speak             bool
	Lang              string
	PermissionTimeout time.Duration
	Metrics           MetricsRecorder
	Log               *slog.Logger
}

// Widget is one live feedback widget: a dictation session, the chat conversation and the
// browser connection they talk through.
//
// Frames are read on the read pump. Permission answers are resolved right there; all other
// frames are applied in order by the event loop. Messages are sent one at a time by the
// send loop so a slow reply never stalls dictation.
type Widget struct {
	id        string
	sessionID string
	zone      *zone.Zone
	speak     bool

	conn       *Conn
	session    *dictation.Session
	recognizer *browserRecognizer
	permission *browserPermission
	dispatcher *dispatch.Dispatcher
	conv       *dispatch.Conversation
	segmenter  *speech.Segmenter
	metrics    MetricsRecorder

	events chan ClientFrame
	sends  chan string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *slog.Logger
}

type dispatchFunc func(ctx context.Context, text string) error

func (f dispatchFunc) Dispatch(ctx context.Context, text string) error { return f(ctx, text) }

func New(cfg Config) (*Widget, error) {
	if cfg.Conn == nil {
		return nil, errors.New("widget: connection is required")
	}
	if cfg.Zone == nil {
		return nil, errors.New("widget: zone is required")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Widget{
		id:        uuid.NewString(),
		sessionID: cfg.SessionID,
		zone:      cfg.Zone,
		speak:     cfg.Speak && cfg.Segmenter != nil,
		conn:      cfg.Conn,
		segmenter: cfg.Segmenter,
		metrics:   cfg.Metrics,
		events:    make(chan ClientFrame, eventBuffer),
		sends:     make(chan string, sendQueue),
		ctx:       ctx,
		cancel:    cancel,
	}
	w.log = cfg.Log.With("widget_id", w.id, "session_id", cfg.SessionID, "zone_id", cfg.Zone.ID)

	w.conv = dispatch.NewConversation(w.onEntry)

	dispatcher, err := dispatch.NewDispatcher(dispatch.DispatcherConfig{
		Sender:       cfg.Sender,
		Conversation: w.conv,
		ZoneID:       cfg.Zone.ID,
		SessionID:    cfg.SessionID,
		Window:       cfg.Window,
		Log:          w.log,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	w.dispatcher = dispatcher

	w.recognizer = newBrowserRecognizer(cfg.Conn, cfg.Lang)
	w.permission = newBrowserPermission(cfg.Conn, cfg.PermissionTimeout)

	sess, err := dictation.NewSession(dictation.Config{
		Recognizer: w.recognizer,
		Permission: w.permission,
		Dispatcher: dispatchFunc(w.enqueue),
		Publisher: &framePublisher{
			conn:    cfg.Conn,
			onError: func(string) { w.record(session.MetricErrors) },
		},
		Log: w.log,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	w.session = sess

	return w, nil
}

func (w *Widget) ID() string        { return w.id }
func (w *Widget) SessionID() string { return w.sessionID }
func (w *Widget) ZoneID() string    { return w.zone.ID }

func (w *Widget) State() dictation.State {
	return w.session.State()
}

func (w *Widget) Conversation() *dispatch.Conversation {
	return w.conv
}

// Run serves the connection until the browser goes away or ctx ends.
func (w *Widget) Run(ctx context.Context) {
	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		w.conn.WritePump(w.ctx)
	}()
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
	go func() {
		defer w.wg.Done()
		w.sendLoop()
	}()

	_ = w.conn.Send(ServerFrame{
		Type: FrameSessionReady,
		Payload: SessionPayload{
			SessionID: w.sessionID,
			ZoneID:    w.zone.ID,
			ZoneName:  w.zone.DisplayName(),
			Speak:     w.speak,
		},
	})
	_ = w.conn.Send(ServerFrame{Type: FrameDictationState, Payload: StatePayload{State: dictation.StateIdle}})

	stop := context.AfterFunc(ctx, w.cancel)
	defer stop()

	w.conn.ReadPump(w.ctx, w.handleFrame)
	w.Close()
}

func (w *Widget) Close() {
	w.cancel()
	w.session.Close()
	w.conn.Close()
	w.wg.Wait()
}

func (w *Widget) handleFrame(frame ClientFrame) {
	if frame.Type == FramePermissionState {
		w.permission.resolve(frame.State)
		return
	}

	select {
	case w.events <- frame:
	case <-w.ctx.Done():
	}
}

func (w *Widget) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case frame := <-w.events:
			w.apply(frame)
		}
	}
}

func (w *Widget) apply(frame ClientFrame) {
	switch frame.Type {
	case FrameDictationStart:
		// Start waits on the permission answer, which arrives on the read pump.
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.startDictation()
		}()

	case FrameDictationStopAndSend:
		if err := w.session.StopAndSend(); err != nil {
			w.log.Debug("stop and send ignored", "error", err)
		}

	case FrameDictationCancel:
		w.session.Cancel()

	case FrameRecognitionResult:
		w.recognizer.deliverResult(frame.Stream, frame.Results)

	case FrameRecognitionError:
		w.recognizer.deliverError(frame.Stream, frame.Error)

	case FrameRecognitionEnd:
		w.recognizer.deliverEnd(frame.Stream)

	case FrameChatSend:
		text := strings.TrimSpace(frame.Text)
		if text == "" {
			return
		}
		w.session.Discard()
		_ = w.enqueue(w.ctx, text)

	case FramePing:
		_ = w.conn.Send(ServerFrame{Type: FramePong})

	default:
		w.log.Debug("unknown frame", "type", frame.Type)
	}
}

func (w *Widget) startDictation() {
	err := w.session.Start(w.ctx)
	switch {
	case err == nil:
		w.record(session.MetricDictations)
	case errors.Is(err, dictation.ErrAlreadyActive), errors.Is(err, dictation.ErrStartAborted):
		w.log.Debug("dictation start ignored", "error", err)
	default:
		w.log.Info("dictation start failed", "error", err)
	}
}

// enqueue hands a finalized message to the send loop. Messages go out in the order they
// were queued; a full queue rejects the message with a chat error.
func (w *Widget) enqueue(_ context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	select {
	case w.sends <- text:
		return nil
	case <-w.ctx.Done():
		return w.ctx.Err()
	default:
		w.conv.Append(dispatch.RoleError, queueFullText)
		return errSendQueueFull
	}
}

func (w *Widget) sendLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case text := <-w.sends:
			// Errors are already recorded in the conversation.
			_, _ = w.dispatcher.Send(w.ctx, text)
		}
	}
}

func (w *Widget) onEntry(e dispatch.Entry) {
	frameType := FrameChatMessage
	switch e.Role {
	case dispatch.RoleWarning:
		frameType = FrameChatWarning
	case dispatch.RoleError:
		frameType = FrameChatError
	}

	_ = w.conn.Send(ServerFrame{
		Type: frameType,
		Payload: ChatPayload{
			ID:   e.ID,
			Role: string(e.Role),
			Text: e.Text,
			At:   e.At.Format(time.RFC3339),
		},
	})

	if e.Role == dispatch.RoleAssistant && w.speak {
		segments := w.segmenter.Split(e.Text)
		for i, seg := range segments {
			_ = w.conn.Send(ServerFrame{
				Type: FrameSpeechSegment,
				Payload: SegmentPayload{
					EntryID: e.ID,
					Index:   i,
					Text:    seg,
					Last:    i == len(segments)-1,
				},
			})
		}
	}
}

func (w *Widget) record(field string) {
	if w.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.metrics.IncrementMetric(ctx, w.zone.ID, field, 1); err != nil {
		w.log.Warn("failed to record metric", "error", err, "field", field)
	}
}
