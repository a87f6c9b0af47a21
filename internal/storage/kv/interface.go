// Package kv defines the key-value storage contract the ledger state is
// persisted through, with in-memory, pebble and leveldb backends.
package kv

import "context"

// DB defines the basic operations any kv backend must support.
type DB interface {
	// Read returns the value stored under key, or ErrKeyNotFound.
	Read(ctx context.Context, key []byte) ([]byte, error)

	// Write stores value under key.
	Write(ctx context.Context, key []byte, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Batch applies all operations atomically.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator traverses keys in [start, end). A nil end means "until the
	// last key with the start prefix exhausted by the caller".
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)

	// Close releases the backend.
	Close() error
}

// Iterator allows traversing kv entries in key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

// BatchOpType discriminates batch operations.
type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
