package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

func TestOverlayReadsThrough(t *testing.T) {
	base := NewMemView()
	require.NoError(t, base.Set([]byte("k"), []byte("base")))

	o := NewOverlay(base)
	v, err := o.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("base"), v)
}

func TestOverlayBuffersWrites(t *testing.T) {
	base := NewMemView()
	o := NewOverlay(base)

	require.NoError(t, o.Set([]byte("k"), []byte("new")))

	v, err := o.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	// Base untouched until commit.
	_, err = base.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, o.Apply(base))
	v, err = base.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestOverlayDeleteShadowsBase(t *testing.T) {
	base := NewMemView()
	require.NoError(t, base.Set([]byte("k"), []byte("base")))

	o := NewOverlay(base)
	require.NoError(t, o.Delete([]byte("k")))

	_, err := o.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Re-set after delete wins.
	require.NoError(t, o.Set([]byte("k"), []byte("again")))
	v, err := o.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("again"), v)
}

func TestOverlayOpsPreserveFirstTouchOrder(t *testing.T) {
	o := NewOverlay(NewMemView())
	require.NoError(t, o.Set([]byte("b"), []byte("2")))
	require.NoError(t, o.Set([]byte("a"), []byte("1")))
	require.NoError(t, o.Delete([]byte("c")))
	require.NoError(t, o.Set([]byte("b"), []byte("22")))

	ops := o.Ops()
	require.Len(t, ops, 3)
	assert.Equal(t, []byte("b"), ops[0].Key)
	assert.Equal(t, []byte("22"), ops[0].Value)
	assert.Equal(t, []byte("a"), ops[1].Key)
	assert.Equal(t, kv.BatchDelete, ops[2].Type)
}

func TestOverlayDirty(t *testing.T) {
	o := NewOverlay(NewMemView())
	assert.False(t, o.Dirty())
	require.NoError(t, o.Set([]byte("k"), []byte("v")))
	assert.True(t, o.Dirty())
}
