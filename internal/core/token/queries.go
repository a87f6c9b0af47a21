package token

import (
	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// Balance returns the stored balance, zero for unknown accounts.
func (l *Ledger) Balance(addr asset.Address) (uint64, error) {
	return getAmount(l.view, state.BalanceKey(addr))
}

// Info returns the token metadata record.
func (l *Ledger) Info() (TokenInfo, error) {
	return l.loadInfo()
}

// Rates returns the current tax rate configuration.
func (l *Ledger) Rates() (RateConfig, error) {
	return l.loadRates()
}

// IsPair reports whether the address is flagged as a taxed venue.
func (l *Ledger) IsPair(addr asset.Address) (bool, error) {
	return l.isPair(addr)
}

// Admin returns the stored admin address, empty when unset.
func (l *Ledger) Admin() (asset.Address, error) {
	data, err := l.view.Get(state.AdminKey())
	if err != nil {
		if err == state.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return asset.Address(data), nil
}

// Treasury returns the bound treasury address, empty when unset.
func (l *Ledger) Treasury() (asset.Address, error) {
	return l.treasuryAddr()
}

// AllowanceOf returns the owner→spender grant, zero when absent.
func (l *Ledger) AllowanceOf(owner, spender asset.Address) (Allowance, error) {
	return l.loadAllowance(owner, spender)
}

// QueryTax computes the tax breakdown a transfer of amount would incur at
// the current rates, without touching balances.
func (l *Ledger) QueryTax(amount uint64) (Breakdown, error) {
	rates, err := l.loadRates()
	if err != nil {
		return Breakdown{}, err
	}
	return ComputeTax(amount, rates), nil
}
