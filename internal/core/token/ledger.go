package token

import (
	"errors"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// Ledger applies token operations against a state view. It holds no state of
// its own: give it an overlay view and discard the overlay to roll back.
type Ledger struct {
	view state.View
}

// NewLedger creates a ledger bound to the given view.
func NewLedger(view state.View) *Ledger {
	return &Ledger{view: view}
}

// InitialBalance seeds one account at instantiation.
type InitialBalance struct {
	Address asset.Address `json:"address"`
	Amount  uint64        `json:"amount"`
}

// InstantiateMsg configures a fresh token.
type InstantiateMsg struct {
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	Decimals        uint8            `json:"decimals"`
	InitialBalances []InitialBalance `json:"initial_balances"`
	Minter          *MinterData      `json:"minter,omitempty"`
	Treasury        asset.Address    `json:"treasury,omitempty"`
}

// Instantiate writes the genesis token state: the caller becomes admin and
// is pre-flagged in the pair registry, taxes start at zero with the
// anti-whale cap wide open.
func (l *Ledger) Instantiate(sender asset.Address, msg InstantiateMsg) error {
	if err := asset.ValidateAddress(sender); err != nil {
		return err
	}
	if msg.Name == "" || msg.Symbol == "" {
		return fmt.Errorf("%w: token name and symbol are required", ErrMalformed)
	}

	if err := l.view.Set(state.AdminKey(), []byte(sender)); err != nil {
		return err
	}
	if err := putJSON(l.view, state.RateConfigKey(), DefaultRateConfig()); err != nil {
		return err
	}
	if err := l.view.Set(state.PairFlagKey(sender), []byte{1}); err != nil {
		return err
	}

	var total uint64
	for _, ib := range msg.InitialBalances {
		if err := asset.ValidateAddress(ib.Address); err != nil {
			return err
		}
		if ib.Amount > ^uint64(0)-total {
			return ErrSupplyOverflow
		}
		total += ib.Amount
		if err := putAmount(l.view, state.BalanceKey(ib.Address), ib.Amount); err != nil {
			return err
		}
	}

	if msg.Minter != nil {
		if err := asset.ValidateAddress(msg.Minter.Minter); err != nil {
			return err
		}
		if msg.Minter.Cap != nil && total > *msg.Minter.Cap {
			return fmt.Errorf("%w: initial supply greater than cap", ErrCapExceeded)
		}
	}

	if msg.Treasury != "" {
		if err := asset.ValidateAddress(msg.Treasury); err != nil {
			return err
		}
		if err := l.view.Set(state.TreasuryAddrKey(), []byte(msg.Treasury)); err != nil {
			return err
		}
	}

	info := TokenInfo{
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		Decimals:    msg.Decimals,
		TotalSupply: total,
		Minter:      msg.Minter,
	}
	return putJSON(l.view, state.TokenInfoKey(), info)
}

// SetTaxRate is the admin-gated rate mutation. The global rate must not
// exceed 1 and reflection+burn must not exceed 1; the previous
// MaxTransferSupplyRate is preserved.
func (l *Ledger) SetTaxRate(sender asset.Address, global, reflection, burn rate.Rate) error {
	if err := l.ensureAdmin(sender); err != nil {
		return err
	}
	current, err := l.loadRates()
	if err != nil {
		return err
	}
	next := RateConfig{
		TaxRate:               global,
		ReflectionRate:        reflection,
		BurnRate:              burn,
		MaxTransferSupplyRate: current.MaxTransferSupplyRate,
	}
	if err := next.Validate(); err != nil {
		return err
	}
	return putJSON(l.view, state.RateConfigKey(), next)
}

// SetPair flags or unflags an address as a taxed venue. Entries are never
// deleted, only toggled, so the registry keeps a record of every venue that
// was ever bound.
func (l *Ledger) SetPair(sender, contract asset.Address, enable bool) error {
	if err := l.ensureAdmin(sender); err != nil {
		return err
	}
	if err := asset.ValidateAddress(contract); err != nil {
		return err
	}
	flag := []byte{0}
	if enable {
		flag[0] = 1
	}
	return l.view.Set(state.PairFlagKey(contract), flag)
}

// SetTreasury binds the treasury address that receives taxed amounts.
func (l *Ledger) SetTreasury(sender, treasury asset.Address) error {
	if err := l.ensureAdmin(sender); err != nil {
		return err
	}
	if err := asset.ValidateAddress(treasury); err != nil {
		return err
	}
	return l.view.Set(state.TreasuryAddrKey(), []byte(treasury))
}

// ensureAdmin enforces the exact-match sender-equals-stored-admin check.
func (l *Ledger) ensureAdmin(sender asset.Address) error {
	admin, err := l.view.Get(state.AdminKey())
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return fmt.Errorf("%w: admin not set", ErrConfigurationMissing)
		}
		return err
	}
	if string(admin) != string(sender) {
		return fmt.Errorf("%w: not admin", ErrUnauthorized)
	}
	return nil
}

// loadRates loads the rate config, mapping a missing record to the
// configuration-missing error.
func (l *Ledger) loadRates() (RateConfig, error) {
	var rates RateConfig
	if err := getJSON(l.view, state.RateConfigKey(), &rates); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return rates, fmt.Errorf("%w: tax rates not initialized", ErrConfigurationMissing)
		}
		return rates, err
	}
	return rates, nil
}

// isPair reads the registry flag for an address; unknown addresses are not
// venues.
func (l *Ledger) isPair(addr asset.Address) (bool, error) {
	data, err := l.view.Get(state.PairFlagKey(addr))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return len(data) == 1 && data[0] == 1, nil
}

// treasuryAddr loads the bound treasury address, empty when unset.
func (l *Ledger) treasuryAddr() (asset.Address, error) {
	data, err := l.view.Get(state.TreasuryAddrKey())
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return asset.Address(data), nil
}

func (l *Ledger) loadInfo() (TokenInfo, error) {
	var info TokenInfo
	if err := getJSON(l.view, state.TokenInfoKey(), &info); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return info, fmt.Errorf("%w: token not instantiated", ErrConfigurationMissing)
		}
		return info, err
	}
	return info, nil
}
