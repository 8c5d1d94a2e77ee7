package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrMissingZone  = errors.New("zone id is required")
)

const defaultDegradedWarning = "The assistant is running in a limited mode right now, so this reply may be less helpful."

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
	RoleWarning   Role = "warning"
)

// NormalizeRole maps client supplied roles onto the two roles the reply pipeline knows.
func NormalizeRole(role string) Role {
	switch role {
	case "assistant", "bot", "model":
		return RoleAssistant
	default:
		return RoleUser
	}
}

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is the feedback call contract.
type Request struct {
	Message   string `json:"message"`
	ZoneID    string `json:"zoneId"`
	SessionID string `json:"sessionId"`
	History   []Turn `json:"history"`
}

func (r Request) Validate() error {
	if r.Message == "" {
		return ErrEmptyMessage
	}
	if r.ZoneID == "" {
		return ErrMissingZone
	}
	return nil
}

type LLMStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type Response struct {
	Response string     `json:"response"`
	LLM      *LLMStatus `json:"llm,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Reply is the assistant answer. Degraded replies are still shown, next to Warning.
type Reply struct {
	Text     string
	Degraded bool
	Warning  string
}

func (r Response) Reply() Reply {
	reply := Reply{Text: r.Response}
	if r.LLM != nil && !r.LLM.OK {
		reply.Degraded = true
		reply.Warning = r.LLM.Message
		if reply.Warning == "" {
			reply.Warning = defaultDegradedWarning
		}
	}
	return reply
}

func ResponseFromReply(r Reply) Response {
	resp := Response{Response: r.Text, LLM: &LLMStatus{OK: !r.Degraded}}
	if r.Degraded {
		resp.LLM.Message = r.Warning
	}
	return resp
}

// HTTPError is a non-2xx answer from the feedback endpoint.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("feedback endpoint returned status %d", e.Status)
	}
	return fmt.Sprintf("feedback endpoint returned status %d: %s", e.Status, e.Message)
}
