// Package engine serializes execute operations, gives them all-or-nothing
// state semantics through a buffered overlay, and owns the treasury trigger
// decision: the token ledger only requests a trigger, the engine consults
// the throttle, plans the liquify run and hands the plan to a dispatcher.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
	"github.com/trueeth/cw20-reflection/internal/state"
	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

// Dispatcher receives instruction plans after the state change producing
// them has committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, plan treasury.Plan) error
}

// EventSink receives transfer events after commit. Sink failures are logged,
// never propagated: the state change already happened.
type EventSink interface {
	PublishTransfers(ctx context.Context, events []token.TransferEvent) error
}

// Options configures an Engine.
type Options struct {
	DB         kv.DB
	Pairs      treasury.PairQuerier
	Balances   treasury.BalanceQuerier
	Dispatcher Dispatcher
	Sinks      []EventSink

	// MinLiquifyInterval is the throttle gap in unix seconds.
	MinLiquifyInterval uint64

	// Now supplies the current unix time. Defaults to the wall clock.
	Now func() uint64

	Logger *logrus.Logger
}

// Result is the outcome of one committed execute operation.
type Result struct {
	// Transfer is set by the transfer, burn and mint operations.
	Transfer *token.TransferResult

	// Plan is the liquify plan dispatched with this operation, if any.
	Plan treasury.Plan

	// Triggered reports whether the throttle admitted a liquify run.
	Triggered bool
}

// Engine is the single-writer execute core.
type Engine struct {
	opts Options

	// mu serializes execute operations end to end, including the
	// throttle's read-then-write.
	mu sync.Mutex
}

// New creates an engine from options.
func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Engine{opts: opts}
}

// session is the per-operation working set: one overlay, the domain cores
// bound to it, and the accumulating result.
type session struct {
	overlay  *state.Overlay
	ledger   *token.Ledger
	treasury *treasury.Treasury
	result   Result
}

// execute runs fn inside a fresh overlay and commits atomically on success.
// A trigger requested by the operation is resolved before commit so the
// throttle timestamp lands in the same batch as the transfer itself.
func (e *Engine) execute(ctx context.Context, fn func(s *session) error) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	overlay := state.NewOverlay(state.NewDBView(ctx, e.opts.DB))
	s := &session{
		overlay:  overlay,
		ledger:   token.NewLedger(overlay),
		treasury: treasury.New(overlay, e.opts.Pairs),
	}
	if err := fn(s); err != nil {
		return Result{}, err
	}

	if s.result.Transfer != nil && s.result.Transfer.TreasuryTrigger {
		throttle := treasury.NewThrottle(overlay, e.opts.MinLiquifyInterval)
		admitted, err := throttle.ShouldTrigger(e.opts.Now())
		if err != nil {
			return Result{}, err
		}
		if admitted {
			plan, err := e.planLiquify(ctx, s)
			if err != nil {
				return Result{}, err
			}
			s.result.Plan = plan
			s.result.Triggered = true
		}
	}

	if overlay.Dirty() {
		if err := e.opts.DB.Batch(ctx, overlay.Ops()); err != nil {
			return Result{}, err
		}
	}

	e.afterCommit(ctx, s.result)
	return s.result, nil
}

// planLiquify sizes a liquify run over the treasury's current token balance
// at the token's current rates. Planning failures abort the enclosing
// operation.
func (e *Engine) planLiquify(ctx context.Context, s *session) (treasury.Plan, error) {
	cfg, err := s.treasury.LoadConfig()
	if err != nil {
		return nil, err
	}
	rates, err := s.ledger.Rates()
	if err != nil {
		return nil, err
	}
	balance, err := s.ledger.Balance(cfg.Address)
	if err != nil {
		return nil, err
	}
	return s.treasury.Liquify(ctx, rates, balance)
}

// afterCommit delivers events and plans. The state change is already
// durable, so delivery failures only log.
func (e *Engine) afterCommit(ctx context.Context, res Result) {
	if res.Transfer != nil && len(res.Transfer.Events) > 0 {
		for _, sink := range e.opts.Sinks {
			if err := sink.PublishTransfers(ctx, res.Transfer.Events); err != nil {
				e.opts.Logger.WithError(err).Warn("transfer event sink failed")
			}
		}
	}
	if len(res.Plan) > 0 && e.opts.Dispatcher != nil {
		if err := e.opts.Dispatcher.Dispatch(ctx, res.Plan); err != nil {
			e.opts.Logger.WithError(err).Error("liquify plan dispatch failed")
		}
	}
}

// view runs fn against a read-only view of current state.
func (e *Engine) view(ctx context.Context, fn func(s *session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	overlay := state.NewOverlay(state.NewDBView(ctx, e.opts.DB))
	s := &session{
		overlay:  overlay,
		ledger:   token.NewLedger(overlay),
		treasury: treasury.New(overlay, e.opts.Pairs),
	}
	return fn(s)
}
