package engine

import (
	"context"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
)

// Balance returns an account's token balance.
func (e *Engine) Balance(ctx context.Context, addr asset.Address) (uint64, error) {
	var out uint64
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.Balance(addr)
		return err
	})
	return out, err
}

// TokenInfo returns the token metadata record.
func (e *Engine) TokenInfo(ctx context.Context) (token.TokenInfo, error) {
	var out token.TokenInfo
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.Info()
		return err
	})
	return out, err
}

// Rates returns the current tax rate configuration.
func (e *Engine) Rates(ctx context.Context) (token.RateConfig, error) {
	var out token.RateConfig
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.Rates()
		return err
	})
	return out, err
}

// QueryTax previews the tax split of a transfer amount.
func (e *Engine) QueryTax(ctx context.Context, amount uint64) (token.Breakdown, error) {
	var out token.Breakdown
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.QueryTax(amount)
		return err
	})
	return out, err
}

// IsPair reports whether an address is a registered venue.
func (e *Engine) IsPair(ctx context.Context, addr asset.Address) (bool, error) {
	var out bool
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.IsPair(addr)
		return err
	})
	return out, err
}

// Allowance returns an owner→spender grant.
func (e *Engine) Allowance(ctx context.Context, owner, spender asset.Address) (token.Allowance, error) {
	var out token.Allowance
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.ledger.AllowanceOf(owner, spender)
		return err
	})
	return out, err
}

// TreasuryBalance returns the treasury account's token balance.
func (e *Engine) TreasuryBalance(ctx context.Context) (uint64, error) {
	var out uint64
	err := e.view(ctx, func(s *session) error {
		cfg, err := s.treasury.LoadConfig()
		if err != nil {
			return err
		}
		out, err = s.ledger.Balance(cfg.Address)
		return err
	})
	return out, err
}

// TreasuryConfig returns the stored treasury configuration.
func (e *Engine) TreasuryConfig(ctx context.Context) (treasury.Config, error) {
	var out treasury.Config
	err := e.view(ctx, func(s *session) error {
		var err error
		out, err = s.treasury.LoadConfig()
		return err
	})
	return out, err
}

// LastLiquify returns the throttle's recorded last trigger time.
func (e *Engine) LastLiquify(ctx context.Context) (uint64, error) {
	var out uint64
	err := e.view(ctx, func(s *session) error {
		th := treasury.NewThrottle(s.overlay, e.opts.MinLiquifyInterval)
		var err error
		out, err = th.LastTrigger()
		return err
	})
	return out, err
}
