package kv

import "errors"

var (
	// ErrDBClosed is returned when operating on a closed backend.
	ErrDBClosed = errors.New("kv store is closed")

	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnknownBackend is returned for unrecognized backend names.
	ErrUnknownBackend = errors.New("unknown kv backend")
)
