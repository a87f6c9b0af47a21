package state

import (
	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

// Overlay buffers writes on top of a base view. Reads fall through to the
// base for keys the overlay has not touched. Nothing reaches the base until
// the caller commits, so discarding the overlay discards the whole operation.
type Overlay struct {
	base    View
	writes  map[string][]byte
	deletes map[string]struct{}
	order   []string
}

// NewOverlay creates an empty overlay over base.
func NewOverlay(base View) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	k := string(key)
	if _, dead := o.deletes[k]; dead {
		return nil, ErrNotFound
	}
	if v, ok := o.writes[k]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Set(key, value []byte) error {
	k := string(key)
	if _, touched := o.writes[k]; !touched {
		if _, dead := o.deletes[k]; !dead {
			o.order = append(o.order, k)
		}
	}
	delete(o.deletes, k)
	v := make([]byte, len(value))
	copy(v, value)
	o.writes[k] = v
	return nil
}

func (o *Overlay) Delete(key []byte) error {
	k := string(key)
	if _, touched := o.writes[k]; !touched {
		if _, dead := o.deletes[k]; !dead {
			o.order = append(o.order, k)
		}
	}
	delete(o.writes, k)
	o.deletes[k] = struct{}{}
	return nil
}

// Dirty reports whether the overlay holds any buffered change.
func (o *Overlay) Dirty() bool {
	return len(o.writes) > 0 || len(o.deletes) > 0
}

// Ops flattens the buffered changes into batch operations, in first-touch
// order, ready for an atomic kv commit.
func (o *Overlay) Ops() []kv.BatchOperation {
	ops := make([]kv.BatchOperation, 0, len(o.order))
	for _, k := range o.order {
		if v, ok := o.writes[k]; ok {
			ops = append(ops, kv.BatchOperation{Type: kv.BatchPut, Key: []byte(k), Value: v})
			continue
		}
		if _, dead := o.deletes[k]; dead {
			ops = append(ops, kv.BatchOperation{Type: kv.BatchDelete, Key: []byte(k)})
		}
	}
	return ops
}

// Apply writes the buffered changes into the given view. Used when the base
// is itself an overlay or an in-memory view.
func (o *Overlay) Apply(dst View) error {
	for _, op := range o.Ops() {
		var err error
		switch op.Type {
		case kv.BatchPut:
			err = dst.Set(op.Key, op.Value)
		case kv.BatchDelete:
			err = dst.Delete(op.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
