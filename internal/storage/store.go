// Package storage persists the single remote-service secret.
package storage

import "context"

// KeyGeminiAPIKey is the well-known name the credential manager stores the
// remote model secret under.
const KeyGeminiAPIKey = "gemini_api_key"

// SecretStore is the contract the credential manager needs from persistence:
// atomic single-value operations on named secrets.
type SecretStore interface {
	// Get returns the stored value for name, or "" if none is stored.
	Get(ctx context.Context, name string) (string, error)

	// Set stores value under name, replacing any previous value.
	Set(ctx context.Context, name, value string) error

	// Remove deletes the value stored under name. Removing an absent
	// name is not an error.
	Remove(ctx context.Context, name string) error
}
