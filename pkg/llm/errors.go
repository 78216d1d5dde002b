package llm

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("API key is not configured")
	ErrEmptyResponse = errors.New("response has no candidate with text")
)

// ProviderError wraps every failure of a generative backend: missing
// credentials, transport errors, non-2xx answers and unexpected shapes.
type ProviderError struct {
	Backend string
	Op      string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err came from a generative backend.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
