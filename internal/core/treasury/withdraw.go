package treasury

import (
	"context"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
)

// WithdrawToken plans an admin sweep of the treasury's full balance of the
// given token to the admin's own account. The recorded liquidity share token
// can never be withdrawn.
func (t *Treasury) WithdrawToken(ctx context.Context, sender, tok asset.Address, balances BalanceQuerier) (Plan, error) {
	cfg, err := t.ensureAdmin(sender)
	if err != nil {
		return nil, err
	}
	if err := asset.ValidateAddress(tok); err != nil {
		return nil, err
	}

	liquidityToken, err := t.LiquidityToken()
	if err != nil {
		return nil, err
	}
	if liquidityToken != "" && tok == liquidityToken {
		return nil, ErrLiquidityTokenProtected
	}

	balance, err := balances.TokenBalance(ctx, tok, cfg.Address)
	if err != nil {
		return nil, err
	}

	return Plan{TokenTransfer{
		Token:     tok,
		Recipient: sender,
		Amount:    balance,
	}}, nil
}
