package token

import (
	"encoding/json"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// ReceiveNotice is the delivery notification a Send/SendFrom schedules for
// the recipient contract. It reports the delivered (post-tax) amount.
type ReceiveNotice struct {
	Contract asset.Address   `json:"contract"`
	Sender   asset.Address   `json:"sender"`
	Amount   uint64          `json:"amount"`
	Msg      json.RawMessage `json:"msg"`
}

// TransferResult is returned by all four transfer operations.
type TransferResult struct {
	// Delivered is the amount credited to the recipient (post-tax when
	// the transfer touched a registered venue).
	Delivered uint64

	// Taxed is the amount credited to the treasury (zero when untaxed).
	Taxed uint64

	// TreasuryTrigger requests a treasury liquify cycle. The ledger only
	// requests; the orchestration layer owns the throttle and the
	// decision.
	TreasuryTrigger bool

	// Events are the transfer-accounting records for observers.
	Events []TransferEvent

	// Notice is the delivery notification, set by Send and SendFrom.
	Notice *ReceiveNotice
}

// Transfer moves amount from sender to recipient, taxing the transfer when
// either side is a registered venue.
func (l *Ledger) Transfer(sender, recipient asset.Address, amount uint64) (TransferResult, error) {
	return l.applyTransfer(ActionTransfer, sender, sender, recipient, amount)
}

// Send is Transfer plus a delivery notification for the recipient contract.
func (l *Ledger) Send(sender, contract asset.Address, amount uint64, msg json.RawMessage) (TransferResult, error) {
	res, err := l.applyTransfer(ActionSend, sender, sender, contract, amount)
	if err != nil {
		return TransferResult{}, err
	}
	res.Notice = &ReceiveNotice{
		Contract: contract,
		Sender:   sender,
		Amount:   res.Delivered,
		Msg:      msg,
	}
	return res, nil
}

// TransferFrom is the delegated transfer: the spender's allowance on owner
// is debited by the nominal amount before the transfer is applied.
func (l *Ledger) TransferFrom(spender, owner, recipient asset.Address, amount uint64, now uint64) (TransferResult, error) {
	if err := l.deductAllowance(owner, spender, amount, now); err != nil {
		return TransferResult{}, err
	}
	return l.applyTransfer(ActionTransferFrom, spender, owner, recipient, amount)
}

// SendFrom is the delegated Send.
func (l *Ledger) SendFrom(spender, owner, contract asset.Address, amount uint64, msg json.RawMessage, now uint64) (TransferResult, error) {
	if err := l.deductAllowance(owner, spender, amount, now); err != nil {
		return TransferResult{}, err
	}
	res, err := l.applyTransfer(ActionSendFrom, spender, owner, contract, amount)
	if err != nil {
		return TransferResult{}, err
	}
	res.Notice = &ReceiveNotice{
		Contract: contract,
		Sender:   spender,
		Amount:   res.Delivered,
		Msg:      msg,
	}
	return res, nil
}

// applyTransfer is the one tax/debit/credit routine behind all four outward
// operations. caller is the account invoking the operation (the venue in the
// delegated case), owner the account debited.
//
// Taxability checks the caller and the recipient against the pair registry:
// an AMM pulling tokens via TransferFrom is taxed by its own registration
// even though the debited owner is an ordinary wallet.
func (l *Ledger) applyTransfer(action string, caller, owner, recipient asset.Address, amount uint64) (TransferResult, error) {
	if amount == 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if err := asset.ValidateAddress(recipient); err != nil {
		return TransferResult{}, err
	}

	callerPair, err := l.isPair(caller)
	if err != nil {
		return TransferResult{}, err
	}
	recipientPair, err := l.isPair(recipient)
	if err != nil {
		return TransferResult{}, err
	}
	isPair := callerPair || recipientPair

	rates, err := l.loadRates()
	if err != nil {
		return TransferResult{}, err
	}
	taxes := ComputeTax(amount, rates)

	delivered := amount
	if isPair {
		delivered = taxes.AfterTax
	}

	if err := l.debit(owner, amount); err != nil {
		return TransferResult{}, err
	}
	if err := l.credit(recipient, delivered); err != nil {
		return TransferResult{}, err
	}

	res := TransferResult{Delivered: delivered}
	by := caller
	if caller == owner {
		by = ""
	}
	res.Events = append(res.Events, TransferEvent{
		Action: action,
		From:   owner,
		To:     recipient,
		By:     by,
		Amount: delivered,
	})

	if isPair && taxes.TaxedAmount > 0 {
		treasury, err := l.treasuryAddr()
		if err != nil {
			return TransferResult{}, err
		}
		if treasury == "" {
			return TransferResult{}, fmt.Errorf("%w: treasury not bound", ErrConfigurationMissing)
		}
		if err := l.credit(treasury, taxes.TaxedAmount); err != nil {
			return TransferResult{}, err
		}
		res.Taxed = taxes.TaxedAmount
		res.TreasuryTrigger = true
		// Observers track the tax movement as its own transfer so the
		// treasury balance shows up correctly in explorers.
		res.Events = append(res.Events, TransferEvent{
			Action: ActionTax,
			From:   owner,
			To:     treasury,
			Amount: taxes.TaxedAmount,
		})
	}

	return res, nil
}

// debit subtracts amount from an account with a checked subtraction.
func (l *Ledger) debit(addr asset.Address, amount uint64) error {
	balance, err := getAmount(l.view, state.BalanceKey(addr))
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, balance, amount)
	}
	return putAmount(l.view, state.BalanceKey(addr), balance-amount)
}

// credit adds amount to an account with a checked addition.
func (l *Ledger) credit(addr asset.Address, amount uint64) error {
	balance, err := getAmount(l.view, state.BalanceKey(addr))
	if err != nil {
		return err
	}
	if balance > ^uint64(0)-amount {
		return ErrSupplyOverflow
	}
	return putAmount(l.view, state.BalanceKey(addr), balance+amount)
}
