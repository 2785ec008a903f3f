// Package crypto provides scope-aware AES-256-GCM encryption for fields
// stored at rest, such as inspection signatures.
package crypto

import "context"

// KeyProvider returns AES-256 encryption keys for named scopes.
type KeyProvider interface {
	// GetKey returns the 32-byte AES-256 key for the given scope.
	GetKey(ctx context.Context, scope string) ([]byte, error)
}
