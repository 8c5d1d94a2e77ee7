package dictation

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyActive = errors.New("dictation already active")
	ErrNotActive     = errors.New("no active dictation")
	ErrPermission    = errors.New("microphone permission denied")
	ErrStartAborted  = errors.New("dictation start cancelled")
)

type ErrorKind string

const (
	ErrorPermissionDenied ErrorKind = "permission_denied"
	ErrorNoSpeech         ErrorKind = "no_speech"
	ErrorNetwork          ErrorKind = "network_unavailable"
	ErrorUnsupported      ErrorKind = "platform_unsupported"
	ErrorUnknown          ErrorKind = "unknown"
)

var errorMessages = map[ErrorKind]string{
	ErrorPermissionDenied: "Microphone access was denied. Allow microphone access and tap the mic again.",
	ErrorNoSpeech:         "No speech was detected. Tap the mic and try again.",
	ErrorNetwork:          "Speech recognition needs a network connection. Check your connection and try again.",
	ErrorUnsupported:      "Voice input is not supported in this browser. Please type your feedback instead.",
}

// StreamError is a recognition stream failure classified for display.
type StreamError struct {
	Kind ErrorKind
	Code string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("recognition error %s (%s)", e.Code, e.Kind)
}

func (e *StreamError) Message() string {
	if msg, ok := errorMessages[e.Kind]; ok {
		return msg
	}
	return fmt.Sprintf("Voice input stopped unexpectedly (%s). Please try again.", e.Code)
}

// MapError classifies a platform error code. It returns nil for "aborted", which only
// acknowledges a cancel.
func MapError(code string) *StreamError {
	switch code {
	case "aborted":
		return nil
	case "not-allowed", "service-not-allowed", "permission-denied":
		return &StreamError{Kind: ErrorPermissionDenied, Code: code}
	case "no-speech":
		return &StreamError{Kind: ErrorNoSpeech, Code: code}
	case "network":
		return &StreamError{Kind: ErrorNetwork, Code: code}
	case "not-supported", "audio-capture", "language-not-supported":
		return &StreamError{Kind: ErrorUnsupported, Code: code}
	default:
		if code == "" {
			code = "unknown"
		}
		return &StreamError{Kind: ErrorUnknown, Code: code}
	}
}
