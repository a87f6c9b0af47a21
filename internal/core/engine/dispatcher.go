package engine

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/trueeth/cw20-reflection/internal/core/treasury"
)

// LogDispatcher records each planned instruction in the log. It stands in
// for a dispatcher that submits instructions to live collaborators.
type LogDispatcher struct {
	log *logrus.Logger
}

// NewLogDispatcher creates a dispatcher logging to log.
func NewLogDispatcher(log *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(_ context.Context, plan treasury.Plan) error {
	for i, ins := range plan {
		entry := d.log.WithField("step", i)
		switch ins := ins.(type) {
		case treasury.TokenTransfer:
			entry.WithFields(logrus.Fields{
				"token":     ins.Token,
				"recipient": ins.Recipient,
				"amount":    ins.Amount,
			}).Info("plan: token transfer")
		case treasury.TokenSend:
			entry.WithFields(logrus.Fields{
				"token":    ins.Token,
				"contract": ins.Contract,
				"amount":   ins.Amount,
			}).Info("plan: token send")
		case treasury.TokenBurn:
			entry.WithFields(logrus.Fields{
				"token":  ins.Token,
				"amount": ins.Amount,
			}).Info("plan: token burn")
		case treasury.GrantAllowance:
			entry.WithFields(logrus.Fields{
				"token":   ins.Token,
				"spender": ins.Spender,
				"amount":  ins.Amount,
			}).Info("plan: grant allowance")
		case treasury.ProvideLiquidity:
			entry.WithFields(logrus.Fields{
				"contract": ins.Contract,
				"base":     ins.Assets[0].Amount,
				"quote":    ins.Assets[1].Amount,
			}).Info("plan: provide liquidity")
		case treasury.RouterSwap:
			entry.WithFields(logrus.Fields{
				"router": ins.Router,
				"amount": ins.Amount,
				"hops":   len(ins.Operations),
			}).Info("plan: router swap")
		default:
			entry.Warn("plan: unknown instruction")
		}
	}
	return nil
}

// RecordingDispatcher accumulates dispatched plans in memory.
type RecordingDispatcher struct {
	mu    sync.Mutex
	plans []treasury.Plan
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, plan treasury.Plan) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plans = append(d.plans, plan)
	return nil
}

// Plans returns a copy of every dispatched plan so far.
func (d *RecordingDispatcher) Plans() []treasury.Plan {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]treasury.Plan, len(d.plans))
	copy(out, d.plans)
	return out
}
