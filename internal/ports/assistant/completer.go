package assistant

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("assistant provider not configured")

// Completer genera texto para un prompt con una instrucción de sistema fija.
type Completer interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
}
