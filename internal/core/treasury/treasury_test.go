package treasury

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/state"
)

const (
	admin      = asset.Address("admin0000")
	treasAddr  = asset.Address("treasury0000")
	tokenAddr  = asset.Address("reflecttoken")
	routerAddr = asset.Address("router0000")
	liqPairC   = asset.Address("liqpair0000")
	reflPairC  = asset.Address("reflpair0000")
	lpToken    = asset.Address("lptoken0000")
)

// fakeQuerier serves canned pair listings and a fixed swap quote.
type fakeQuerier struct {
	infos     map[asset.Address]PairInfo
	returnAmt uint64
	simCalls  []AssetAmount
}

func (f *fakeQuerier) PairInfo(_ context.Context, contract asset.Address) (PairInfo, error) {
	info, ok := f.infos[contract]
	if !ok {
		return PairInfo{}, assert.AnError
	}
	return info, nil
}

func (f *fakeQuerier) Simulate(_ context.Context, _ asset.Address, offer AssetAmount) (Simulation, error) {
	f.simCalls = append(f.simCalls, offer)
	return Simulation{ReturnAmount: f.returnAmt}, nil
}

type fakeBalances map[asset.Address]uint64

func (f fakeBalances) TokenBalance(_ context.Context, token, _ asset.Address) (uint64, error) {
	return f[token], nil
}

func quoteNative() asset.Info { return asset.Native("inj") }

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		infos: map[asset.Address]PairInfo{
			liqPairC: {
				AssetInfos:     asset.Pair{asset.Token(tokenAddr), quoteNative()},
				LiquidityToken: lpToken,
			},
			reflPairC: {
				AssetInfos:     asset.Pair{asset.Token("dojotoken000"), quoteNative()},
				LiquidityToken: "lptoken0001",
			},
		},
		returnAmt: 7_500,
	}
}

func newTestTreasury(t *testing.T, q PairQuerier) *Treasury {
	t.Helper()
	tr := New(state.NewMemView(), q)
	require.NoError(t, tr.Instantiate(Config{
		Admin:   admin,
		Address: treasAddr,
		Token:   tokenAddr,
		Router:  routerAddr,
	}))
	return tr
}

func bindPairs(t *testing.T, tr *Treasury) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, tr.SetLiquidityPair(ctx, admin,
		asset.Pair{asset.Token(tokenAddr), quoteNative()}, liqPairC))
	require.NoError(t, tr.SetReflectionPair(ctx, admin,
		asset.Pair{asset.Token("dojotoken000"), quoteNative()}, reflPairC))
}

func testRates(reflection, burn string) token.RateConfig {
	return token.RateConfig{
		TaxRate:               rate.MustParse("0.1"),
		ReflectionRate:        rate.MustParse(reflection),
		BurnRate:              rate.MustParse(burn),
		MaxTransferSupplyRate: rate.One(),
	}
}

func TestSetMinLiquify(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())

	err := tr.SetMinLiquify(treasAddr, 100)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, tr.SetMinLiquify(admin, 100))
	cfg, err := tr.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), cfg.MinLiquifyAmount)
}

func TestSetLiquidityPairRecordsShareToken(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())

	err := tr.SetLiquidityPair(context.Background(), admin,
		asset.Pair{asset.Token(tokenAddr), quoteNative()}, liqPairC)
	require.NoError(t, err)

	got, err := tr.LiquidityToken()
	require.NoError(t, err)
	assert.Equal(t, lpToken, got)

	binding, bound, err := tr.LiquidityPair()
	require.NoError(t, err)
	assert.True(t, bound)
	assert.Equal(t, liqPairC, binding.Contract)
}

func TestSetLiquidityPairRejectsNativeBase(t *testing.T) {
	q := newFakeQuerier()
	q.infos[liqPairC] = PairInfo{
		AssetInfos:     asset.Pair{quoteNative(), asset.Token(tokenAddr)},
		LiquidityToken: lpToken,
	}
	tr := newTestTreasury(t, q)

	err := tr.SetLiquidityPair(context.Background(), admin,
		asset.Pair{asset.Token(tokenAddr), quoteNative()}, liqPairC)
	assert.ErrorIs(t, err, ErrBaseNotToken)
}

func TestSetPairRejectsUnlistedAsset(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())

	err := tr.SetLiquidityPair(context.Background(), admin,
		asset.Pair{asset.Token(tokenAddr), asset.Native("uatom")}, liqPairC)
	assert.ErrorIs(t, err, ErrPairAssetNotListed)
}

func TestCrossPairQuoteMustMatch(t *testing.T) {
	q := newFakeQuerier()
	q.infos[reflPairC] = PairInfo{
		AssetInfos:     asset.Pair{asset.Token("dojotoken000"), asset.Native("uatom")},
		LiquidityToken: "lptoken0001",
	}
	tr := newTestTreasury(t, q)
	ctx := context.Background()

	require.NoError(t, tr.SetLiquidityPair(ctx, admin,
		asset.Pair{asset.Token(tokenAddr), quoteNative()}, liqPairC))

	err := tr.SetReflectionPair(ctx, admin,
		asset.Pair{asset.Token("dojotoken000"), asset.Native("uatom")}, reflPairC)
	assert.ErrorIs(t, err, ErrMismatchedQuoteAsset)
}

func TestLiquifyRequiresBindings(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())

	_, err := tr.Liquify(context.Background(), testRates("0.5", "0.1"), 100_000)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestLiquifyRequiresBindingsBelowMinimum(t *testing.T) {
	// the binding checks come first: an unbound treasury errors even when
	// the balance would not clear the minimum anyway
	tr := newTestTreasury(t, newFakeQuerier())
	require.NoError(t, tr.SetMinLiquify(admin, 1_000_000))

	_, err := tr.Liquify(context.Background(), testRates("0.5", "0.1"), 100)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestLiquifyBelowMinimumIsEmpty(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())
	bindPairs(t, tr)
	require.NoError(t, tr.SetMinLiquify(admin, 1_000_000))

	plan, err := tr.Liquify(context.Background(), testRates("0.5", "0.1"), 100_000)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestLiquifyPlanNativeQuote(t *testing.T) {
	q := newFakeQuerier()
	tr := newTestTreasury(t, q)
	bindPairs(t, tr)

	// 100000 splits into reflection 50000, burn 10000, liquidity 40000
	plan, err := tr.Liquify(context.Background(), testRates("0.5", "0.1"), 100_000)
	require.NoError(t, err)
	require.Len(t, plan, 5)

	grant, ok := plan[0].(GrantAllowance)
	require.True(t, ok)
	assert.Equal(t, liqPairC, grant.Spender)
	assert.Equal(t, uint64(20_000), grant.Amount)

	swap, ok := plan[1].(TokenSend)
	require.True(t, ok)
	assert.Equal(t, liqPairC, swap.Contract)
	assert.Equal(t, uint64(20_000), swap.Amount)
	require.Len(t, q.simCalls, 1)
	assert.Equal(t, uint64(20_000), q.simCalls[0].Amount)

	deposit, ok := plan[2].(ProvideLiquidity)
	require.True(t, ok)
	assert.Equal(t, uint64(20_000), deposit.Assets[0].Amount)
	assert.Equal(t, uint64(7_500), deposit.Assets[1].Amount)
	require.NotNil(t, deposit.AttachedFunds)
	assert.Equal(t, uint64(7_500), deposit.AttachedFunds.Amount)

	reflSwap, ok := plan[3].(RouterSwap)
	require.True(t, ok)
	assert.Equal(t, routerAddr, reflSwap.Router)
	assert.Equal(t, uint64(50_000), reflSwap.Amount)
	require.Len(t, reflSwap.Operations, 2)
	assert.Equal(t, asset.Token(tokenAddr), reflSwap.Operations[0].Offer)
	assert.Equal(t, quoteNative(), reflSwap.Operations[0].Ask)
	assert.Equal(t, quoteNative(), reflSwap.Operations[1].Offer)
	assert.Equal(t, asset.Token("dojotoken000"), reflSwap.Operations[1].Ask)

	burn, ok := plan[4].(TokenBurn)
	require.True(t, ok)
	assert.Equal(t, uint64(10_000), burn.Amount)
}

func TestLiquifyPlanTokenQuote(t *testing.T) {
	quoteTok := asset.Token("quotetoken00")
	q := newFakeQuerier()
	q.infos[liqPairC] = PairInfo{
		AssetInfos:     asset.Pair{asset.Token(tokenAddr), quoteTok},
		LiquidityToken: lpToken,
	}
	q.infos[reflPairC] = PairInfo{
		AssetInfos:     asset.Pair{asset.Token("dojotoken000"), quoteTok},
		LiquidityToken: "lptoken0001",
	}
	tr := newTestTreasury(t, q)
	ctx := context.Background()
	require.NoError(t, tr.SetLiquidityPair(ctx, admin,
		asset.Pair{asset.Token(tokenAddr), quoteTok}, liqPairC))
	require.NoError(t, tr.SetReflectionPair(ctx, admin,
		asset.Pair{asset.Token("dojotoken000"), quoteTok}, reflPairC))

	plan, err := tr.Liquify(ctx, testRates("0", "0"), 40_000)
	require.NoError(t, err)
	// quote is a token: the deposit is preceded by a second allowance
	// grant instead of attached funds
	require.Len(t, plan, 4)

	quoteGrant, ok := plan[2].(GrantAllowance)
	require.True(t, ok)
	assert.Equal(t, asset.Address("quotetoken00"), quoteGrant.Token)
	assert.Equal(t, uint64(7_500), quoteGrant.Amount)

	deposit, ok := plan[3].(ProvideLiquidity)
	require.True(t, ok)
	assert.Nil(t, deposit.AttachedFunds)
}

func TestLiquifySkipsZeroLegs(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())
	bindPairs(t, tr)

	// everything reflects, nothing to liquify or burn
	plan, err := tr.Liquify(context.Background(), testRates("1", "0"), 100_000)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	_, ok := plan[0].(RouterSwap)
	assert.True(t, ok)
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(state.NewMemView(), 1)

	ok, err := th.ShouldTrigger(100)
	require.NoError(t, err)
	assert.True(t, ok)

	// same instant collapses to one trigger
	ok, err = th.ShouldTrigger(100)
	require.NoError(t, err)
	assert.False(t, ok)

	// boundary: now must exceed last + interval
	ok, err = th.ShouldTrigger(101)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = th.ShouldTrigger(102)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLiquifyBelowMinimumLeavesThrottleAlone(t *testing.T) {
	view := state.NewMemView()
	tr := New(view, newFakeQuerier())
	require.NoError(t, tr.Instantiate(Config{
		Admin: admin, Address: treasAddr, Token: tokenAddr, Router: routerAddr,
	}))
	bindPairs(t, tr)
	require.NoError(t, tr.SetMinLiquify(admin, 1_000_000))
	th := NewThrottle(view, 1)

	ok, err := th.ShouldTrigger(100)
	require.NoError(t, err)
	require.True(t, ok)

	plan, err := tr.Liquify(context.Background(), testRates("0.5", "0.1"), 10)
	require.NoError(t, err)
	assert.Empty(t, plan)

	last, err := th.LastTrigger()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), last)
}

func TestWithdrawToken(t *testing.T) {
	tr := newTestTreasury(t, newFakeQuerier())
	bindPairs(t, tr)
	balances := fakeBalances{asset.Address("sometoken000"): 4_200}

	_, err := tr.WithdrawToken(context.Background(), treasAddr, "sometoken000", balances)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = tr.WithdrawToken(context.Background(), admin, lpToken, balances)
	assert.ErrorIs(t, err, ErrLiquidityTokenProtected)

	plan, err := tr.WithdrawToken(context.Background(), admin, "sometoken000", balances)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	transfer, ok := plan[0].(TokenTransfer)
	require.True(t, ok)
	assert.Equal(t, admin, transfer.Recipient)
	assert.Equal(t, uint64(4_200), transfer.Amount)
}

func TestCachedPairQuerier(t *testing.T) {
	q := newFakeQuerier()
	cached, err := NewCachedPairQuerier(q, 8)
	require.NoError(t, err)

	first, err := cached.PairInfo(context.Background(), liqPairC)
	require.NoError(t, err)

	// mutate the backend; the cached listing must survive
	delete(q.infos, liqPairC)
	second, err := cached.PairInfo(context.Background(), liqPairC)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
