package token

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// TokenInfo is the token metadata record.
type TokenInfo struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Decimals    uint8       `json:"decimals"`
	TotalSupply uint64      `json:"total_supply"`
	Minter      *MinterData `json:"minter,omitempty"`
}

// MinterData describes who may mint and up to which total supply.
type MinterData struct {
	Minter asset.Address `json:"minter"`
	Cap    *uint64       `json:"cap,omitempty"`
}

// RateConfig holds the four tax parameters.
//
// Invariants: TaxRate <= 1 and ReflectionRate + BurnRate <= 1; the remainder
// of the taxed amount after reflection and burn is the liquidity share.
type RateConfig struct {
	TaxRate               rate.Rate `json:"tax_rate"`
	ReflectionRate        rate.Rate `json:"reflection_rate"`
	BurnRate              rate.Rate `json:"burn_rate"`
	MaxTransferSupplyRate rate.Rate `json:"max_transfer_supply_rate"`
}

// DefaultRateConfig is the instantiation-time config: all taxes zero, the
// anti-whale transfer cap wide open.
func DefaultRateConfig() RateConfig {
	return RateConfig{MaxTransferSupplyRate: rate.One()}
}

// Validate enforces the rate invariants.
func (c RateConfig) Validate() error {
	if c.TaxRate.GreaterThanOne() {
		return fmt.Errorf("%w: tax rate %s exceeds 1", ErrRateOutOfRange, c.TaxRate)
	}
	if c.ReflectionRate.Add(c.BurnRate).GreaterThanOne() {
		return fmt.Errorf("%w: reflection %s + burn %s exceeds 1",
			ErrRateOutOfRange, c.ReflectionRate, c.BurnRate)
	}
	if c.MaxTransferSupplyRate.GreaterThanOne() {
		return fmt.Errorf("%w: max transfer supply rate %s exceeds 1",
			ErrRateOutOfRange, c.MaxTransferSupplyRate)
	}
	return nil
}

// Allowance is a spender allowance with an optional expiration (unix
// seconds). A nil Expires never expires.
type Allowance struct {
	Amount  uint64  `json:"amount"`
	Expires *uint64 `json:"expires,omitempty"`
}

// IsExpired reports whether the allowance has lapsed at the given time.
func (a Allowance) IsExpired(now uint64) bool {
	return a.Expires != nil && now >= *a.Expires
}

// --- state record codecs ---

func putAmount(v state.View, key []byte, amount uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], amount)
	return v.Set(key, buf[:])
}

func getAmount(v state.View, key []byte) (uint64, error) {
	data, err := v.Get(key)
	if err != nil {
		if err == state.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt amount record under %q", key)
	}
	return binary.BigEndian.Uint64(data), nil
}

func putJSON(v state.View, key []byte, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return v.Set(key, data)
}

// getJSON loads a JSON record. Missing keys return state.ErrNotFound
// untouched so callers can map it to their own taxonomy.
func getJSON(v state.View, key []byte, record any) error {
	data, err := v.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, record)
}
