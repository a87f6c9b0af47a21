package treasury

import (
	"github.com/trueeth/cw20-reflection/internal/state"
)

// Throttle rate-limits liquify triggers. Only the throttle writes the
// last-trigger timestamp; the liquify planner never touches it, so a run
// that short-circuits below the minimum balance leaves the next trigger
// window unchanged.
type Throttle struct {
	view state.View

	// minInterval is the minimum gap between triggers, in unix seconds.
	minInterval uint64
}

// NewThrottle creates a throttle over the given view.
func NewThrottle(view state.View, minInterval uint64) *Throttle {
	return &Throttle{view: view, minInterval: minInterval}
}

// ShouldTrigger reports whether a liquify run may start at now, recording
// now when it may. Callers serialize the read-then-write: two transfers
// landing at the same instant collapse to one trigger.
func (th *Throttle) ShouldTrigger(now uint64) (bool, error) {
	last, err := getTimestamp(th.view, state.LastLiquifyKey())
	if err != nil {
		return false, err
	}
	if now <= last+th.minInterval {
		return false, nil
	}
	if err := putTimestamp(th.view, state.LastLiquifyKey(), now); err != nil {
		return false, err
	}
	return true, nil
}

// LastTrigger returns the recorded last trigger time, zero when none.
func (th *Throttle) LastTrigger() (uint64, error) {
	return getTimestamp(th.view, state.LastLiquifyKey())
}
