// Package state provides keyed access to ledger state: the key schema, a
// view abstraction over the kv store, and a buffered overlay that gives
// execute operations their all-or-nothing semantics.
package state

import (
	"context"
	"errors"

	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

// ErrNotFound is returned by View.Get for missing keys.
var ErrNotFound = errors.New("state entry not found")

// View provides read/write access to keyed ledger state.
type View interface {
	// Get returns the value under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Set stores value under key.
	Set(key, value []byte) error

	// Delete removes key.
	Delete(key []byte) error
}

// DBView adapts a kv.DB to the View interface with a bound context.
type DBView struct {
	ctx context.Context
	db  kv.DB
}

// NewDBView binds ctx and db into a View.
func NewDBView(ctx context.Context, db kv.DB) *DBView {
	return &DBView{ctx: ctx, db: db}
}

func (v *DBView) Get(key []byte) ([]byte, error) {
	val, err := v.db.Read(v.ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (v *DBView) Set(key, value []byte) error {
	return v.db.Write(v.ctx, key, value)
}

func (v *DBView) Delete(key []byte) error {
	return v.db.Delete(v.ctx, key)
}

// MemView is a plain map-backed View for tests and planning dry runs.
type MemView struct {
	data map[string][]byte
}

// NewMemView creates an empty in-memory view.
func NewMemView() *MemView {
	return &MemView{data: make(map[string][]byte)}
}

func (v *MemView) Get(key []byte) ([]byte, error) {
	val, ok := v.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (v *MemView) Set(key, value []byte) error {
	out := make([]byte, len(value))
	copy(out, value)
	v.data[string(key)] = out
	return nil
}

func (v *MemView) Delete(key []byte) error {
	delete(v.data, string(key))
	return nil
}
