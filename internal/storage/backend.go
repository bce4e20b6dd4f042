// Package storage abstracts "save this blob at this path" over local disk
// and S3-compatible object storage. Paths are forward-slash relative keys
// such as "Demo/pins.json"; the stores never know which backend is active.
package storage

import "context"

// Backend is the persistence contract used by every store.
//
// GetJSON and GetBytes report found=false (with a nil error) when no object
// exists at the path, so callers can distinguish "absent" from a real I/O
// failure.
type Backend interface {
	// PutJSON serializes v as indented JSON and stores it at path.
	PutJSON(ctx context.Context, path string, v any) error

	// GetJSON loads the object at path into out.
	GetJSON(ctx context.Context, path string, out any) (found bool, err error)

	// PutBytes stores raw bytes at path (photo files and other non-JSON blobs).
	PutBytes(ctx context.Context, path string, data []byte) error

	// GetBytes loads the raw object at path.
	GetBytes(ctx context.Context, path string) (data []byte, found bool, err error)

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the object at path. Deleting a missing object is not an
	// error.
	Delete(ctx context.Context, path string) error

	// ListPrefix returns the paths of all objects under the given prefix.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
}
