package token

import "errors"

// Error taxonomy. Validation errors reject bad input, authorization errors
// reject the wrong caller, state errors reject operations against missing or
// protected configuration, and resource errors reject unaffordable debits.
// Every error aborts the enclosing operation with no state change.
var (
	// ErrInvalidAmount rejects zero-amount transfers, burns and mints.
	ErrInvalidAmount = errors.New("invalid zero amount")

	// ErrMalformed rejects structurally invalid messages.
	ErrMalformed = errors.New("malformed message")

	// ErrRateOutOfRange rejects tax rates above 1 and reflection+burn
	// sums above 1.
	ErrRateOutOfRange = errors.New("rate out of range")

	// ErrUnauthorized rejects callers that are not the configured admin
	// (or, for internal triggers, not the bound token itself).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConfigurationMissing rejects operations that need configuration
	// which was never initialized.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrInsufficientFunds rejects debits larger than the stored balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientAllowance rejects delegated debits larger than the
	// remaining allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrAllowanceExpired rejects delegated debits after the allowance
	// expiration.
	ErrAllowanceExpired = errors.New("allowance expired")

	// ErrNoMinter rejects mints on a token without a minter.
	ErrNoMinter = errors.New("minting not enabled")

	// ErrCapExceeded rejects mints that would push total supply past the
	// configured cap.
	ErrCapExceeded = errors.New("minting cap exceeded")

	// ErrSupplyOverflow rejects operations that would overflow a balance
	// or the total supply counter.
	ErrSupplyOverflow = errors.New("supply overflow")
)
