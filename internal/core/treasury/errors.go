package treasury

import "errors"

var (
	// ErrUnauthorized rejects callers that are not the treasury admin.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConfigurationMissing rejects operations that need bindings which
	// were never made.
	ErrConfigurationMissing = errors.New("treasury configuration missing")

	// ErrMismatchedQuoteAsset rejects a pair binding whose quote asset
	// disagrees with the other bound pair.
	ErrMismatchedQuoteAsset = errors.New("pair quote assets do not match")

	// ErrPairAssetNotListed rejects a binding whose assets do not appear
	// in the venue's reported pair.
	ErrPairAssetNotListed = errors.New("asset not listed by pair contract")

	// ErrBaseNotToken rejects a liquidity pair whose base asset is not a
	// token contract.
	ErrBaseNotToken = errors.New("pair base asset must be a token contract")

	// ErrLiquidityTokenProtected rejects withdrawal of the recorded
	// liquidity share token.
	ErrLiquidityTokenProtected = errors.New("liquidity token cannot be withdrawn")

	// ErrInvalidSplit reports a rate configuration whose reflection and
	// burn shares exceed the balance being split. The planner never clamps.
	ErrInvalidSplit = errors.New("reflection and burn exceed balance")
)
