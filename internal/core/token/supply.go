package token

import (
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// Burn destroys amount from the sender's balance and shrinks total supply.
func (l *Ledger) Burn(sender asset.Address, amount uint64) (TransferResult, error) {
	return l.applyBurn(sender, sender, amount)
}

// BurnFrom is the delegated burn: the spender's allowance on owner is
// charged before the burn is applied.
func (l *Ledger) BurnFrom(spender, owner asset.Address, amount uint64, now uint64) (TransferResult, error) {
	if err := l.deductAllowance(owner, spender, amount, now); err != nil {
		return TransferResult{}, err
	}
	return l.applyBurn(spender, owner, amount)
}

func (l *Ledger) applyBurn(caller, owner asset.Address, amount uint64) (TransferResult, error) {
	if amount == 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if err := l.debit(owner, amount); err != nil {
		return TransferResult{}, err
	}
	info, err := l.loadInfo()
	if err != nil {
		return TransferResult{}, err
	}
	if info.TotalSupply < amount {
		return TransferResult{}, fmt.Errorf("burn of %d exceeds total supply %d", amount, info.TotalSupply)
	}
	info.TotalSupply -= amount
	if err := putJSON(l.view, state.TokenInfoKey(), info); err != nil {
		return TransferResult{}, err
	}

	by := caller
	if caller == owner {
		by = ""
	}
	return TransferResult{
		Events: []TransferEvent{{
			Action: ActionBurn,
			From:   owner,
			By:     by,
			Amount: amount,
		}},
	}, nil
}

// Mint creates amount for recipient. Only the configured minter may mint,
// and the new total supply must stay under the cap when one is set.
func (l *Ledger) Mint(sender, recipient asset.Address, amount uint64) (TransferResult, error) {
	if amount == 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if err := asset.ValidateAddress(recipient); err != nil {
		return TransferResult{}, err
	}
	info, err := l.loadInfo()
	if err != nil {
		return TransferResult{}, err
	}
	if info.Minter == nil {
		return TransferResult{}, ErrNoMinter
	}
	if info.Minter.Minter != sender {
		return TransferResult{}, fmt.Errorf("%w: not the minter", ErrUnauthorized)
	}
	if info.TotalSupply > ^uint64(0)-amount {
		return TransferResult{}, ErrSupplyOverflow
	}
	info.TotalSupply += amount
	if info.Minter.Cap != nil && info.TotalSupply > *info.Minter.Cap {
		return TransferResult{}, fmt.Errorf("%w: supply %d over cap %d", ErrCapExceeded, info.TotalSupply, *info.Minter.Cap)
	}
	if err := l.credit(recipient, amount); err != nil {
		return TransferResult{}, err
	}
	if err := putJSON(l.view, state.TokenInfoKey(), info); err != nil {
		return TransferResult{}, err
	}
	return TransferResult{
		Delivered: amount,
		Events: []TransferEvent{{
			Action: ActionMint,
			To:     recipient,
			By:     sender,
			Amount: amount,
		}},
	}, nil
}
