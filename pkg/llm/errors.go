package llm

import "errors"

// ErrNoChoices is returned when a provider answers without any generated
// choice to relay.
var ErrNoChoices = errors.New("provider returned no choices")
