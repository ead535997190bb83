// Package blob provides the durable slot the signal history persists
// through. Backends only need whole-value read and write; the history
// is always rewritten in full.
package blob

import "context"

// Storage defines the interface for blob persistence.
type Storage interface {
	// Write stores data at path, replacing any previous value.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the data at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether path holds a value.
	Exists(ctx context.Context, path string) (bool, error)
}
