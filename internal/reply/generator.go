package reply

import (
	"context"
	"errors"
)

var ErrEmptyReply = errors.New("reply: upstream returned an empty response")

// Prompt is one generation request. System carries the assistant instructions.
type Prompt struct {
	System string
	Text   string
	Zone   string
}

type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Checker is implemented by generators that can report upstream availability.
type Checker interface {
	Available(ctx context.Context) bool
}
