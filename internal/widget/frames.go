package widget

import "github.com/eleven-am/zone-feedback/internal/dictation"

// Frames sent by the browser.
const (
	FrameDictationStart       = "dictation.start"
	FrameDictationStopAndSend = "dictation.stop_and_send"
	FrameDictationCancel      = "dictation.cancel"
	FrameRecognitionResult    = "recognition.result"
	FrameRecognitionError     = "recognition.error"
	FrameRecognitionEnd       = "recognition.end"
	FramePermissionState      = "permission.state"
	FrameChatSend             = "chat.send"
	FramePing                 = "ping"
)

// Frames sent to the browser.
const (
	FrameSessionReady      = "session.ready"
	FrameDictationText     = "dictation.text"
	FrameDictationState    = "dictation.state"
	FrameDictationError    = "dictation.error"
	FrameChatMessage       = "chat.message"
	FrameChatWarning       = "chat.warning"
	FrameChatError         = "chat.error"
	FrameSpeechSegment     = "speech.segment"
	FrameRecognitionStart  = "recognition.start"
	FrameRecognitionStop   = "recognition.stop"
	FrameRecognitionAbort  = "recognition.abort"
	FramePermissionCheck   = "permission.check"
	FramePermissionRequest = "permission.request"
	FramePong              = "pong"
)

// ClientFrame is one browser frame. Recognition frames echo the stream id they belong to.
type ClientFrame struct {
	Type    string                    `json:"type"`
	Stream  uint64                    `json:"stream,omitempty"`
	Text    string                    `json:"text,omitempty"`
	Results []dictation.ResultSegment `json:"results,omitempty"`
	Error   string                    `json:"error,omitempty"`
	State   string                    `json:"state,omitempty"`
}

type ServerFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type SessionPayload struct {
	SessionID string `json:"sessionId"`
	ZoneID    string `json:"zoneId"`
	ZoneName  string `json:"zoneName"`
	Speak     bool   `json:"speak"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type StatePayload struct {
	State dictation.State `json:"state"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ChatPayload struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
	At   string `json:"at"`
}

type SegmentPayload struct {
	EntryID string `json:"entryId"`
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Last    bool   `json:"last"`
}

type RecognitionPayload struct {
	Stream         uint64 `json:"stream"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interimResults"`
	Lang           string `json:"lang,omitempty"`
}

type StreamPayload struct {
	Stream uint64 `json:"stream"`
}
