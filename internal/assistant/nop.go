package assistant

import "context"

// Disabled is used when assistant.enabled is false. It makes no LLM calls.
type Disabled struct{}

// NewDisabled returns a Disabled assistant.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Ask always returns ErrDisabled.
func (Disabled) Ask(_ context.Context, _, _ string) (string, error) {
	return "", ErrDisabled
}
