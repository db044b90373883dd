// Package ai scores candidates through an external text-generation service and falls back to the
// heuristic scorer whenever that path cannot produce a valid result.
package ai

import "context"

// TextGenerator is the external text-generation client. Implementations must honour ctx deadlines.
type TextGenerator interface {
	Complete(ctx context.Context, prompt, formatInstructions string) (string, error)
}

// describer is implemented by generators that can name their provider and model for logs.
type describer interface {
	Provider() string
	Model() string
}
