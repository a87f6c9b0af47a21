package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

const (
	admin     = asset.Address("admin0000")
	alice     = asset.Address("alice0000")
	bob       = asset.Address("bob00000")
	ammPair   = asset.Address("pair0000")
	treasAddr = asset.Address("treasury0000")
	tokenAddr = asset.Address("reflecttoken")
	router    = asset.Address("router0000")
	liqPairC  = asset.Address("liqpair0000")
	reflPairC = asset.Address("reflpair0000")
)

type fakePairs struct{}

func (fakePairs) PairInfo(_ context.Context, contract asset.Address) (treasury.PairInfo, error) {
	quote := asset.Native("inj")
	if contract == liqPairC {
		return treasury.PairInfo{
			AssetInfos:     asset.Pair{asset.Token(tokenAddr), quote},
			LiquidityToken: "lptoken0000",
		}, nil
	}
	return treasury.PairInfo{
		AssetInfos:     asset.Pair{asset.Token("dojotoken000"), quote},
		LiquidityToken: "lptoken0001",
	}, nil
}

func (fakePairs) Simulate(_ context.Context, _ asset.Address, offer treasury.AssetAmount) (treasury.Simulation, error) {
	return treasury.Simulation{ReturnAmount: offer.Amount / 2}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []token.TransferEvent
}

func (s *recordingSink) PublishTransfers(_ context.Context, events []token.TransferEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

type testClock struct{ now uint64 }

func (c *testClock) Now() uint64 { return c.now }

func newTestEngine(t *testing.T) (*Engine, *RecordingDispatcher, *recordingSink, *testClock) {
	t.Helper()
	clock := &testClock{now: 1000}
	dispatcher := &RecordingDispatcher{}
	sink := &recordingSink{}
	e := New(Options{
		DB:                 kv.NewMemoryDB(),
		Pairs:              fakePairs{},
		Dispatcher:         dispatcher,
		Sinks:              []EventSink{sink},
		MinLiquifyInterval: 1,
		Now:                clock.Now,
	})

	ctx := context.Background()
	require.NoError(t, e.InstantiateToken(ctx, admin, token.InstantiateMsg{
		Name:     "Reflect",
		Symbol:   "RFT",
		Decimals: 6,
		InitialBalances: []token.InitialBalance{
			{Address: alice, Amount: 1_000_000},
		},
		Treasury: treasAddr,
	}))
	require.NoError(t, e.InstantiateTreasury(ctx, treasury.Config{
		Admin:   admin,
		Address: treasAddr,
		Token:   tokenAddr,
		Router:  router,
	}))
	require.NoError(t, e.SetTaxRate(ctx, admin,
		rate.MustParse("0.1"), rate.MustParse("0.5"), rate.MustParse("0.1")))
	require.NoError(t, e.SetPair(ctx, admin, ammPair, true))
	require.NoError(t, e.SetLiquidityPair(ctx, admin,
		asset.Pair{asset.Token(tokenAddr), asset.Native("inj")}, liqPairC))
	require.NoError(t, e.SetReflectionPair(ctx, admin,
		asset.Pair{asset.Token("dojotoken000"), asset.Native("inj")}, reflPairC))
	return e, dispatcher, sink, clock
}

func TestTaxedTransferDispatchesPlan(t *testing.T) {
	e, dispatcher, sink, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)
	require.NotNil(t, res.Transfer)
	assert.Equal(t, uint64(90_000), res.Transfer.Delivered)
	assert.Equal(t, uint64(10_000), res.Transfer.Taxed)
	assert.True(t, res.Triggered)
	assert.NotEmpty(t, res.Plan)

	plans := dispatcher.Plans()
	require.Len(t, plans, 1)

	// the treasury held 10000 at planning time: reflection 5000,
	// burn 1000, liquidity 4000 split half and half
	var burnAmt, swapAmt uint64
	for _, ins := range plans[0] {
		switch ins := ins.(type) {
		case treasury.TokenBurn:
			burnAmt = ins.Amount
		case treasury.RouterSwap:
			swapAmt = ins.Amount
		}
	}
	assert.Equal(t, uint64(1_000), burnAmt)
	assert.Equal(t, uint64(5_000), swapAmt)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 2)
	assert.Equal(t, token.ActionTax, sink.events[1].Action)
}

func TestUntaxedTransferDoesNotTrigger(t *testing.T) {
	e, dispatcher, _, _ := newTestEngine(t)

	res, err := e.Transfer(context.Background(), alice, bob, 100_000)
	require.NoError(t, err)
	assert.False(t, res.Triggered)
	assert.Empty(t, dispatcher.Plans())
}

func TestSameInstantTriggersCollapse(t *testing.T) {
	e, dispatcher, _, _ := newTestEngine(t)
	ctx := context.Background()

	res1, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)
	assert.True(t, res1.Triggered)

	// same instant: the throttle already recorded this second
	res2, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)
	assert.False(t, res2.Triggered)
	assert.Empty(t, res2.Plan)
	assert.Len(t, dispatcher.Plans(), 1)
}

func TestThrottleReopensAfterInterval(t *testing.T) {
	e, dispatcher, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)

	clock.now += 2
	res, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)
	assert.True(t, res.Triggered)
	assert.Len(t, dispatcher.Plans(), 2)
}

func TestFailedTransferLeavesNoTrace(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Transfer(ctx, bob, ammPair, 1_000)
	require.ErrorIs(t, err, token.ErrInsufficientFunds)

	bal, err := e.Balance(ctx, treasAddr)
	require.NoError(t, err)
	assert.Zero(t, bal)

	last, err := e.LastLiquify(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)
}

func TestManualLiquifyBypassesThrottle(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	// fund the treasury through a taxed transfer, then liquify again by
	// hand without waiting out the interval
	_, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)

	res, err := e.Liquify(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Plan)

	last, err := e.LastLiquify(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), last, "manual liquify must not move the throttle")
}

func TestBelowMinimumTriggerBurnsTheWindow(t *testing.T) {
	e, dispatcher, _, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetMinLiquify(ctx, admin, 1_000_000))

	res, err := e.Transfer(ctx, alice, ammPair, 100_000)
	require.NoError(t, err)
	assert.True(t, res.Triggered)
	assert.Empty(t, res.Plan)
	assert.Empty(t, dispatcher.Plans())

	// the window was consumed even though nothing was planned
	last, err := e.LastLiquify(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), last)
}

func TestDelegatedTransferThroughEngine(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.IncreaseAllowance(ctx, alice, ammPair, 200_000, nil))
	res, err := e.TransferFrom(ctx, ammPair, alice, bob, 100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000), res.Transfer.Delivered)

	remaining, err := e.Allowance(ctx, alice, ammPair)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), remaining.Amount)
}

func TestQueries(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	ctx := context.Background()

	info, err := e.TokenInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RFT", info.Symbol)

	b, err := e.QueryTax(ctx, 100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), b.TaxedAmount)

	on, err := e.IsPair(ctx, ammPair)
	require.NoError(t, err)
	assert.True(t, on)

	bal, err := e.TreasuryBalance(ctx)
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestWithdrawTokenThroughEngine(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.opts.Balances = stubBalances{}
	ctx := context.Background()

	_, err := e.WithdrawToken(ctx, admin, "lptoken0000")
	assert.ErrorIs(t, err, treasury.ErrLiquidityTokenProtected)

	res, err := e.WithdrawToken(ctx, admin, "sometoken000")
	require.NoError(t, err)
	require.Len(t, res.Plan, 1)
}

type stubBalances struct{}

func (stubBalances) TokenBalance(_ context.Context, _, _ asset.Address) (uint64, error) {
	return 500, nil
}
