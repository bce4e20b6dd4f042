// Package common defines shared constants and sentinel errors used across
// the storage and service layers of FacadeKeeper. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors. These propagate to the UI layer so it can show a
	// field-level message; they are never swallowed at a store boundary.
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidProject = errors.New("invalid project name")

	// Chat/attachment errors.
	ErrPhotoNotFound = errors.New("photo file does not exist")
	ErrPinNotSaved   = errors.New("pin has no id yet, save the pin before attaching photos")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
