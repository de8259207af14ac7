package credentials

import "fmt"

// CredentialError indicates that an API key could not be resolved from
// either the environment or the secret store. It is a configuration
// error and should not be retried.
type CredentialError struct {
	SecretName string
	Message    string
	Cause      error
}

func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("credential %q: %s: %v", e.SecretName, e.Message, e.Cause)
	}
	return fmt.Sprintf("credential %q: %s", e.SecretName, e.Message)
}

func (e *CredentialError) Unwrap() error {
	return e.Cause
}
