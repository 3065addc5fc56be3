package tsdbjson

import "errors"

// Common errors returned by tsdbjson stores and utilities.
var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("tsdbjson: not found")

	// ErrPermissionDenied is returned when access to a key is denied.
	ErrPermissionDenied = errors.New("tsdbjson: permission denied")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("tsdbjson: store closed")

	// ErrInvalidKey is returned when a key is invalid (e.g., escapes the
	// store root via "..").
	ErrInvalidKey = errors.New("tsdbjson: invalid key")

	// ErrNotSupported is returned when an operation is not supported by the store.
	ErrNotSupported = errors.New("tsdbjson: operation not supported")

	// ErrUnknownStore is returned by Open when the store name is not registered.
	ErrUnknownStore = errors.New("tsdbjson: unknown store")
)

// IsNotFound returns true if the error indicates a key was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied returns true if the error indicates permission was denied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
