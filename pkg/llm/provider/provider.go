// Package provider defines the boundary between the relay and the upstream
// chat-completion services.
package provider

import (
	"context"

	"github.com/papercomputeco/pairwise/pkg/llm"
)

// Completer sends one transcript to one model and returns the text of the
// first generated choice.
type Completer interface {
	// Name returns the canonical provider name (e.g. "openai").
	Name() string

	// Complete issues a single, non-streaming completion request. Errors from
	// the transport or the provider are returned as-is (wrapped); there is no
	// retry. Returns llm.ErrNoChoices if the provider produced nothing.
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}
