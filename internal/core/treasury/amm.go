package treasury

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
)

// PairInfo is a venue's reported pair listing.
type PairInfo struct {
	AssetInfos     asset.Pair    `json:"asset_infos"`
	LiquidityToken asset.Address `json:"liquidity_token"`
}

// Simulation is a venue's quote for an offered swap amount.
type Simulation struct {
	ReturnAmount     uint64 `json:"return_amount"`
	SpreadAmount     uint64 `json:"spread_amount"`
	CommissionAmount uint64 `json:"commission_amount"`
}

// PairQuerier answers venue queries. Implementations talk to the live venue
// contracts; tests substitute fixtures.
type PairQuerier interface {
	// PairInfo returns the pair listing of a venue contract.
	PairInfo(ctx context.Context, contract asset.Address) (PairInfo, error)

	// Simulate quotes a swap of the offered asset against a venue.
	Simulate(ctx context.Context, contract asset.Address, offer AssetAmount) (Simulation, error)
}

// BalanceQuerier reports token balances held by external token contracts.
type BalanceQuerier interface {
	TokenBalance(ctx context.Context, token, owner asset.Address) (uint64, error)
}

// CachedPairQuerier caches pair listings in front of a PairQuerier. Listings
// are immutable for a deployed venue so they cache indefinitely; simulations
// are price-sensitive and always pass through.
type CachedPairQuerier struct {
	inner PairQuerier
	pairs *lru.Cache[asset.Address, PairInfo]
}

// NewCachedPairQuerier wraps inner with an LRU of the given size.
func NewCachedPairQuerier(inner PairQuerier, size int) (*CachedPairQuerier, error) {
	cache, err := lru.New[asset.Address, PairInfo](size)
	if err != nil {
		return nil, err
	}
	return &CachedPairQuerier{inner: inner, pairs: cache}, nil
}

func (c *CachedPairQuerier) PairInfo(ctx context.Context, contract asset.Address) (PairInfo, error) {
	if info, ok := c.pairs.Get(contract); ok {
		return info, nil
	}
	info, err := c.inner.PairInfo(ctx, contract)
	if err != nil {
		return PairInfo{}, err
	}
	c.pairs.Add(contract, info)
	return info, nil
}

func (c *CachedPairQuerier) Simulate(ctx context.Context, contract asset.Address, offer AssetAmount) (Simulation, error) {
	return c.inner.Simulate(ctx, contract, offer)
}
