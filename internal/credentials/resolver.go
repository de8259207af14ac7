// Package credentials resolves provider API keys from the environment or
// a secret store, caching successful lookups in-process.
package credentials

import (
	"context"
	"os"
	"strings"
)

// SecretStore is the external secret backend consulted when an
// environment variable is not set. Implementations are supplied by the
// deployment (e.g. a cloud secret manager client).
type SecretStore interface {
	// GetSecret returns the value for a secret name, or an error if the
	// secret does not exist or cannot be read.
	GetSecret(ctx context.Context, name string) (string, error)
}

// Resolver resolves API keys by secret name. Environment variables take
// priority over the secret store. Successful lookups are cached.
//
// The cache is intentionally unlocked: all keys are read-only constants,
// so concurrent first-time lookups may both populate the same entry with
// the same value. The worst case is a duplicate store read, not a
// correctness issue.
type Resolver struct {
	store SecretStore
	cache map[string]string
}

// NewResolver creates a Resolver backed by the given secret store.
// A nil store is valid; resolution then relies on environment variables only.
func NewResolver(store SecretStore) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[string]string),
	}
}

// APIKey resolves the value for a secret name. The environment variable
// name is derived by upper-casing the secret name and replacing dashes
// with underscores ("openai-api-key" -> "OPENAI_API_KEY").
func (r *Resolver) APIKey(ctx context.Context, secretName string) (string, error) {
	if secretName == "" {
		return "", &CredentialError{SecretName: secretName, Message: "secret name is empty"}
	}

	if cached, ok := r.cache[secretName]; ok {
		return cached, nil
	}

	if value := os.Getenv(EnvVarName(secretName)); value != "" {
		r.cache[secretName] = value
		return value, nil
	}

	if r.store != nil {
		value, err := r.store.GetSecret(ctx, secretName)
		if err == nil && value != "" {
			r.cache[secretName] = value
			return value, nil
		}
		if err != nil {
			return "", &CredentialError{
				SecretName: secretName,
				Message:    "not set in environment and secret store lookup failed",
				Cause:      err,
			}
		}
	}

	return "", &CredentialError{
		SecretName: secretName,
		Message:    "not set in environment and not found in secret store",
	}
}

// ClearCache drops all cached values. Used for test isolation and after
// key rotation.
func (r *Resolver) ClearCache() {
	r.cache = make(map[string]string)
}

// EnvVarName derives the environment variable name for a secret name.
func EnvVarName(secretName string) string {
	return strings.ToUpper(strings.ReplaceAll(secretName, "-", "_"))
}
