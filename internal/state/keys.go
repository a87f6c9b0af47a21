package state

import (
	"github.com/trueeth/cw20-reflection/internal/core/asset"
)

// Key prefixes. Every record in the store lives under exactly one of these,
// so range scans (balances, pair registry) stay cheap.
const (
	prefixBalance   = "bal/"
	prefixAllowance = "alw/"
	prefixPairFlag  = "pair/"
	keyTokenInfo    = "cfg/token_info"
	keyRateConfig   = "cfg/rates"
	keyAdmin        = "cfg/admin"
	keyTreasuryAddr = "cfg/treasury"
	keyLastLiquify  = "cfg/last_liquify"
	keyTreasury     = "treasury/config"
	keyLiquidityTok = "treasury/liquidity_token"
	keyLiqPair      = "treasury/liquidity_pair"
	keyReflPair     = "treasury/reflection_pair"
)

// BalanceKey returns the key of an account balance record.
func BalanceKey(addr asset.Address) []byte {
	return []byte(prefixBalance + string(addr))
}

// BalancePrefix returns the scan bounds covering all balance records.
func BalancePrefix() (start, end []byte) {
	return []byte(prefixBalance), []byte(prefixBalance[:len(prefixBalance)-1] + "0")
}

// AllowanceKey returns the key of an owner→spender allowance record.
func AllowanceKey(owner, spender asset.Address) []byte {
	return []byte(prefixAllowance + string(owner) + "/" + string(spender))
}

// PairFlagKey returns the key of a pair registry flag.
func PairFlagKey(addr asset.Address) []byte {
	return []byte(prefixPairFlag + string(addr))
}

// TokenInfoKey returns the key of the token metadata record.
func TokenInfoKey() []byte { return []byte(keyTokenInfo) }

// RateConfigKey returns the key of the tax rate configuration.
func RateConfigKey() []byte { return []byte(keyRateConfig) }

// AdminKey returns the key of the stored admin address.
func AdminKey() []byte { return []byte(keyAdmin) }

// TreasuryAddrKey returns the key of the bound treasury address.
func TreasuryAddrKey() []byte { return []byte(keyTreasuryAddr) }

// LastLiquifyKey returns the key of the liquify throttle timestamp.
func LastLiquifyKey() []byte { return []byte(keyLastLiquify) }

// TreasuryConfigKey returns the key of the treasury configuration record.
func TreasuryConfigKey() []byte { return []byte(keyTreasury) }

// LiquidityTokenKey returns the key of the recorded liquidity-share token.
func LiquidityTokenKey() []byte { return []byte(keyLiquidityTok) }

// LiquidityPairKey returns the key of the bound liquidity pair.
func LiquidityPairKey() []byte { return []byte(keyLiqPair) }

// ReflectionPairKey returns the key of the bound reflection pair.
func ReflectionPairKey() []byte { return []byte(keyReflPair) }
