package eventindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueeth/cw20-reflection/internal/core/token"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(context.Background(), Config{
		Backend: BackendSQLite,
		DSN:     filepath.Join(t.TempDir(), "events.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSaveAndQueryTransfers(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	events := []token.TransferEvent{
		{Action: token.ActionTransfer, From: "alice0000", To: "pair0000", Amount: 90_000},
		{Action: token.ActionTax, From: "alice0000", To: "treasury0000", Amount: 10_000},
		{Action: token.ActionTransfer, From: "bob00000", To: "carol0000", Amount: 42},
	}
	require.NoError(t, idx.SaveTransfers(ctx, events))

	count, err := idx.TransferCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	recent, err := idx.RecentTransfers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, uint64(42), recent[0].Event.Amount)
	assert.Equal(t, token.ActionTax, recent[1].Event.Action)

	byAccount, err := idx.AccountTransfers(ctx, "alice0000", 10)
	require.NoError(t, err)
	require.Len(t, byAccount, 2)

	byRecipient, err := idx.AccountTransfers(ctx, "treasury0000", 10)
	require.NoError(t, err)
	require.Len(t, byRecipient, 1)
	assert.Equal(t, uint64(10_000), byRecipient[0].Event.Amount)
}

func TestSaveEmptyBatchIsNoop(t *testing.T) {
	idx := openTestIndex(t)
	require.NoError(t, idx.SaveTransfers(context.Background(), nil))

	count, err := idx.TransferCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClosedIndexRejectsOperations(t *testing.T) {
	idx := openTestIndex(t)
	require.NoError(t, idx.Close())

	err := idx.SaveTransfers(context.Background(), []token.TransferEvent{{Action: "transfer"}})
	assert.ErrorIs(t, err, ErrIndexClosed)
}
