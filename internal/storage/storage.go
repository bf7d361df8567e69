package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrConflict signals an upload with overwrite=false onto an existing key.
// Callers resolve it by reusing the existing object, not by failing the user.
var ErrConflict = errors.New("storage: object already exists")

// ErrInvalidInput signals a rejected upload (bad content type or size).
// Not retryable.
var ErrInvalidInput = errors.New("storage: invalid upload input")

// TransientError wraps a network or server-side failure. Retryable.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("storage: transient failure: %v", e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// ObjectStore stores named blobs under a shared bucket and derives stable
// public URLs for them.
type ObjectStore interface {
	// Upload stores content at key. With overwrite=false an existing key fails
	// with ErrConflict; with overwrite=true last write wins. Returns the
	// public URL of the object.
	Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error)
	// PublicURL derives the object's public URL from the key alone. Pure
	// string work, no I/O; callers may cache the result.
	PublicURL(key string) string
}
