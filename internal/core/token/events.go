package token

import "github.com/trueeth/cw20-reflection/internal/core/asset"

// Event actions emitted by the ledger.
const (
	ActionTransfer     = "transfer"
	ActionSend         = "send"
	ActionTransferFrom = "transfer_from"
	ActionSendFrom     = "send_from"
	ActionBurn         = "burn"
	ActionMint         = "mint"
	ActionTax          = "tax"
)

// TransferEvent is the transfer-accounting record handed to observers.
// Amount is always the amount actually delivered to To, not the nominal
// transfer amount, so external indexers track balances correctly.
type TransferEvent struct {
	Action string        `json:"action"`
	From   asset.Address `json:"from"`
	To     asset.Address `json:"to"`
	By     asset.Address `json:"by,omitempty"`
	Amount uint64        `json:"amount"`
}
