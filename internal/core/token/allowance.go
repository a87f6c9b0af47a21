package token

import (
	"errors"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// IncreaseAllowance raises the spender's allowance on the owner's balance.
// A non-nil expires replaces any previous expiration.
func (l *Ledger) IncreaseAllowance(owner, spender asset.Address, amount uint64, expires *uint64) error {
	if err := asset.ValidateAddress(spender); err != nil {
		return err
	}
	if owner == spender {
		return fmt.Errorf("%w: cannot set allowance to own account", ErrMalformed)
	}
	allowance, err := l.loadAllowance(owner, spender)
	if err != nil {
		return err
	}
	if amount > ^uint64(0)-allowance.Amount {
		allowance.Amount = ^uint64(0)
	} else {
		allowance.Amount += amount
	}
	if expires != nil {
		allowance.Expires = expires
	}
	return putJSON(l.view, state.AllowanceKey(owner, spender), allowance)
}

// DecreaseAllowance lowers the spender's allowance, deleting the record when
// it reaches zero.
func (l *Ledger) DecreaseAllowance(owner, spender asset.Address, amount uint64, expires *uint64) error {
	if err := asset.ValidateAddress(spender); err != nil {
		return err
	}
	if owner == spender {
		return fmt.Errorf("%w: cannot set allowance to own account", ErrMalformed)
	}
	allowance, err := l.loadAllowance(owner, spender)
	if err != nil {
		return err
	}
	if amount >= allowance.Amount {
		return l.view.Delete(state.AllowanceKey(owner, spender))
	}
	allowance.Amount -= amount
	if expires != nil {
		allowance.Expires = expires
	}
	return putJSON(l.view, state.AllowanceKey(owner, spender), allowance)
}

// deductAllowance charges the spender's allowance by the nominal transfer
// amount, rejecting expired or insufficient grants.
func (l *Ledger) deductAllowance(owner, spender asset.Address, amount uint64, now uint64) error {
	allowance, err := l.loadAllowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.IsExpired(now) {
		return ErrAllowanceExpired
	}
	if allowance.Amount < amount {
		return fmt.Errorf("%w: allowance %d, need %d", ErrInsufficientAllowance, allowance.Amount, amount)
	}
	allowance.Amount -= amount
	if allowance.Amount == 0 {
		return l.view.Delete(state.AllowanceKey(owner, spender))
	}
	return putJSON(l.view, state.AllowanceKey(owner, spender), allowance)
}

// loadAllowance reads the owner→spender grant, zero when absent.
func (l *Ledger) loadAllowance(owner, spender asset.Address) (Allowance, error) {
	var allowance Allowance
	if err := getJSON(l.view, state.AllowanceKey(owner, spender), &allowance); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return Allowance{}, nil
		}
		return Allowance{}, err
	}
	return allowance, nil
}
