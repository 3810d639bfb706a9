package extract

import (
	"context"
	"errors"
)

// TextGenerator is the single external capability the extraction pipeline
// consumes: prompt in, raw model reply out. Providers (Gemini, OpenAI) live in
// subpackages and are swappable behind this interface.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrExtractionUnavailable wraps provider-level failures (network, auth,
// quota). It is the only error the orchestrator surfaces; malformed or empty
// model output degrades to defaults instead.
var ErrExtractionUnavailable = errors.New("extraction unavailable")
