package treasury

import (
	"encoding/json"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
)

// AssetAmount pairs an asset with an integer amount.
type AssetAmount struct {
	Info   asset.Info `json:"info"`
	Amount uint64     `json:"amount"`
}

// SwapHop is one leg of a routed swap.
type SwapHop struct {
	Offer asset.Info `json:"offer_asset_info"`
	Ask   asset.Info `json:"ask_asset_info"`
}

// Instruction is one step of a liquify or withdrawal plan. Instructions are
// value types; they describe collaborator calls without performing them.
type Instruction interface {
	isInstruction()
}

// TokenTransfer moves tokens to a recipient account.
type TokenTransfer struct {
	Token     asset.Address `json:"token"`
	Recipient asset.Address `json:"recipient"`
	Amount    uint64        `json:"amount"`
}

// TokenSend moves tokens to a contract together with a hook message.
type TokenSend struct {
	Token    asset.Address   `json:"token"`
	Contract asset.Address   `json:"contract"`
	Amount   uint64          `json:"amount"`
	Msg      json.RawMessage `json:"msg"`
}

// TokenBurn destroys tokens from the treasury's balance.
type TokenBurn struct {
	Token  asset.Address `json:"token"`
	Amount uint64        `json:"amount"`
}

// GrantAllowance raises a spender's allowance on the treasury's balance of
// the given token.
type GrantAllowance struct {
	Token   asset.Address `json:"token"`
	Spender asset.Address `json:"spender"`
	Amount  uint64        `json:"amount"`
}

// ProvideLiquidity deposits both sides of a pair into a venue. When the
// quote side is a native asset the funds ride along with the call instead of
// being granted through an allowance.
type ProvideLiquidity struct {
	Contract      asset.Address  `json:"contract"`
	Assets        [2]AssetAmount `json:"assets"`
	AttachedFunds *AssetAmount   `json:"attached_funds,omitempty"`
}

// RouterSwap sells tokens through a multi-hop router. No minimum receive is
// set and proceeds return to the caller.
type RouterSwap struct {
	Router     asset.Address `json:"router"`
	Token      asset.Address `json:"token"`
	Amount     uint64        `json:"amount"`
	Operations []SwapHop     `json:"operations"`
}

func (TokenTransfer) isInstruction()    {}
func (TokenSend) isInstruction()        {}
func (TokenBurn) isInstruction()        {}
func (GrantAllowance) isInstruction()   {}
func (ProvideLiquidity) isInstruction() {}
func (RouterSwap) isInstruction()       {}

// Plan is an ordered list of instructions. Order matters: allowances and
// swaps must land before the liquidity deposit that depends on them.
type Plan []Instruction
