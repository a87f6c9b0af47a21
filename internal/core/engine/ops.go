package engine

import (
	"context"
	"encoding/json"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
)

// InstantiateToken writes the genesis token state.
func (e *Engine) InstantiateToken(ctx context.Context, sender asset.Address, msg token.InstantiateMsg) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.Instantiate(sender, msg)
	})
	return err
}

// InstantiateTreasury writes the initial treasury configuration.
func (e *Engine) InstantiateTreasury(ctx context.Context, cfg treasury.Config) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.treasury.Instantiate(cfg)
	})
	return err
}

// Transfer moves tokens between accounts, taxing venue-touching transfers.
func (e *Engine) Transfer(ctx context.Context, sender, recipient asset.Address, amount uint64) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.Transfer(sender, recipient, amount)
	})
}

// Send is Transfer plus a delivery notification for a recipient contract.
func (e *Engine) Send(ctx context.Context, sender, contract asset.Address, amount uint64, msg json.RawMessage) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.Send(sender, contract, amount, msg)
	})
}

// TransferFrom is the allowance-backed delegated transfer.
func (e *Engine) TransferFrom(ctx context.Context, spender, owner, recipient asset.Address, amount uint64) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.TransferFrom(spender, owner, recipient, amount, e.opts.Now())
	})
}

// SendFrom is the allowance-backed delegated Send.
func (e *Engine) SendFrom(ctx context.Context, spender, owner, contract asset.Address, amount uint64, msg json.RawMessage) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.SendFrom(spender, owner, contract, amount, msg, e.opts.Now())
	})
}

// Burn destroys tokens from the sender's balance.
func (e *Engine) Burn(ctx context.Context, sender asset.Address, amount uint64) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.Burn(sender, amount)
	})
}

// BurnFrom is the allowance-backed delegated burn.
func (e *Engine) BurnFrom(ctx context.Context, spender, owner asset.Address, amount uint64) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.BurnFrom(spender, owner, amount, e.opts.Now())
	})
}

// Mint creates tokens for a recipient.
func (e *Engine) Mint(ctx context.Context, sender, recipient asset.Address, amount uint64) (Result, error) {
	return e.transferOp(ctx, func(s *session) (token.TransferResult, error) {
		return s.ledger.Mint(sender, recipient, amount)
	})
}

func (e *Engine) transferOp(ctx context.Context, fn func(s *session) (token.TransferResult, error)) (Result, error) {
	return e.execute(ctx, func(s *session) error {
		res, err := fn(s)
		if err != nil {
			return err
		}
		s.result.Transfer = &res
		return nil
	})
}

// IncreaseAllowance raises a spender's allowance on the sender's balance.
func (e *Engine) IncreaseAllowance(ctx context.Context, owner, spender asset.Address, amount uint64, expires *uint64) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.IncreaseAllowance(owner, spender, amount, expires)
	})
	return err
}

// DecreaseAllowance lowers a spender's allowance on the sender's balance.
func (e *Engine) DecreaseAllowance(ctx context.Context, owner, spender asset.Address, amount uint64, expires *uint64) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.DecreaseAllowance(owner, spender, amount, expires)
	})
	return err
}

// SetTaxRate updates the tax split, admin only.
func (e *Engine) SetTaxRate(ctx context.Context, sender asset.Address, global, reflection, burn rate.Rate) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.SetTaxRate(sender, global, reflection, burn)
	})
	return err
}

// SetPair toggles a venue flag in the pair registry, admin only.
func (e *Engine) SetPair(ctx context.Context, sender, contract asset.Address, enable bool) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.SetPair(sender, contract, enable)
	})
	return err
}

// SetTreasury binds the treasury account taxed amounts are credited to.
func (e *Engine) SetTreasury(ctx context.Context, sender, addr asset.Address) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.ledger.SetTreasury(sender, addr)
	})
	return err
}

// SetLiquidityPair binds the treasury's liquidity pair, admin only.
func (e *Engine) SetLiquidityPair(ctx context.Context, sender asset.Address, assets asset.Pair, pairContract asset.Address) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.treasury.SetLiquidityPair(ctx, sender, assets, pairContract)
	})
	return err
}

// SetReflectionPair binds the treasury's reflection pair, admin only.
func (e *Engine) SetReflectionPair(ctx context.Context, sender asset.Address, assets asset.Pair, pairContract asset.Address) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.treasury.SetReflectionPair(ctx, sender, assets, pairContract)
	})
	return err
}

// SetMinLiquify sets the treasury's liquify balance floor, admin only.
func (e *Engine) SetMinLiquify(ctx context.Context, sender asset.Address, amount uint64) error {
	_, err := e.execute(ctx, func(s *session) error {
		return s.treasury.SetMinLiquify(sender, amount)
	})
	return err
}

// Liquify plans and dispatches a recycling run immediately, bypassing the
// trigger throttle. The throttle timestamp is not touched.
func (e *Engine) Liquify(ctx context.Context) (Result, error) {
	return e.execute(ctx, func(s *session) error {
		plan, err := e.planLiquify(ctx, s)
		if err != nil {
			return err
		}
		s.result.Plan = plan
		return nil
	})
}

// WithdrawToken plans an admin sweep of a non-LP token held by the treasury.
func (e *Engine) WithdrawToken(ctx context.Context, sender, tok asset.Address) (Result, error) {
	return e.execute(ctx, func(s *session) error {
		plan, err := s.treasury.WithdrawToken(ctx, sender, tok, e.opts.Balances)
		if err != nil {
			return err
		}
		s.result.Plan = plan
		return nil
	})
}
