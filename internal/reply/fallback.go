package reply

import (
	"context"
	"fmt"
)

// Fallback answers without an upstream so feedback is still acknowledged when generation
// fails.
type Fallback struct{}

func (Fallback) Generate(_ context.Context, p Prompt) (string, error) {
	if p.Zone == "" {
		return "Thanks, we've recorded your feedback and passed it on to the facilities team.", nil
	}
	return fmt.Sprintf("Thanks, we've recorded your feedback for %s and passed it on to the facilities team.", p.Zone), nil
}
