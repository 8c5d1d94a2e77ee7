package dictation

import "context"

type State string

const (
	StateIdle                   State = "idle"
	StateListening              State = "listening"
	StateStoppedPendingDecision State = "stopped_pending_decision"
)

// ResultSegment is one recognition result inside an event. Final segments will not be
// revised by the platform; interim ones may be.
type ResultSegment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// RecognitionEvent carries the full segment list as delivered by the platform. The list is
// not incremental: it may repeat finals from earlier events.
type RecognitionEvent struct {
	Results []ResultSegment `json:"results"`
}

type Transcript struct {
	FinalText   string `json:"final_text"`
	DisplayText string `json:"display_text"`
}

type Snapshot struct {
	State       State  `json:"state"`
	FinalText   string `json:"final_text"`
	DisplayText string `json:"display_text"`
	Error       string `json:"error,omitempty"`
	AutoSend    bool   `json:"auto_send"`
}

// StreamHandler receives the notifications of one recognition stream.
type StreamHandler interface {
	OnResult(event RecognitionEvent)
	OnError(code string)
	OnEnd()
}

// Recognizer is a live speech recognition stream. Stop requests a graceful end (results are
// flushed, then OnEnd); Abort ends immediately and discards pending results.
type Recognizer interface {
	Start(ctx context.Context, handler StreamHandler) error
	Stop() error
	Abort() error
}

type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
	PermissionUnknown PermissionState = "unknown"
)

// PermissionService is the microphone capability. Request asks for the capability and does
// not wait for the user's answer.
type PermissionService interface {
	Check(ctx context.Context) (PermissionState, error)
	Request(ctx context.Context) error
}

// Dispatcher receives finalized dictation text. It is called at most once per dictation.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) error
}

type Publisher interface {
	PublishText(text string)
	PublishState(state State)
	PublishError(message string)
}
