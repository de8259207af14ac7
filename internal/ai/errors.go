package ai

import "fmt"

// UnknownProviderError indicates a provider type that the factory does
// not recognize. This is a configuration error and must not be retried.
type UnknownProviderError struct {
	Type string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown AI provider type %q (supported: %s, %s)", e.Type, ProviderOpenAI, ProviderGemini)
}
