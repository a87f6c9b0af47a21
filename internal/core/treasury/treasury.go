// Package treasury plans the liquify, reflection and burn legs that recycle
// collected taxes. The planner reads bindings from a state view and returns
// instruction plans; it never executes collaborator calls itself and never
// touches the trigger throttle.
package treasury

import (
	"errors"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// Config is the treasury's stored configuration.
type Config struct {
	// Admin may bind pairs, set the liquify minimum and withdraw tokens.
	Admin asset.Address `json:"admin"`

	// Address is the treasury's own account, the one taxed amounts are
	// credited to.
	Address asset.Address `json:"address"`

	// Token is the reflective token the treasury recycles.
	Token asset.Address `json:"token"`

	// Router is the multi-hop swap router used by the reflection leg.
	Router asset.Address `json:"router"`

	// MinLiquifyAmount is the balance floor below which Liquify returns
	// an empty plan.
	MinLiquifyAmount uint64 `json:"min_liquify_amount"`
}

// PairBinding is a bound pair: its two assets in base/quote order and the
// venue contract that trades them.
type PairBinding struct {
	Assets   asset.Pair    `json:"assets"`
	Contract asset.Address `json:"contract"`
}

// Treasury reads and writes treasury state through a view and consults a
// pair querier for venue listings and swap quotes.
type Treasury struct {
	view  state.View
	pairs PairQuerier
}

// New creates a treasury bound to the given view and querier.
func New(view state.View, pairs PairQuerier) *Treasury {
	return &Treasury{view: view, pairs: pairs}
}

// Instantiate writes the initial treasury configuration. The liquify minimum
// starts at zero.
func (t *Treasury) Instantiate(cfg Config) error {
	for _, addr := range []asset.Address{cfg.Admin, cfg.Address, cfg.Token, cfg.Router} {
		if err := asset.ValidateAddress(addr); err != nil {
			return err
		}
	}
	cfg.MinLiquifyAmount = 0
	return putJSON(t.view, state.TreasuryConfigKey(), cfg)
}

// SetMinLiquify sets the balance floor for liquify runs.
func (t *Treasury) SetMinLiquify(sender asset.Address, amount uint64) error {
	cfg, err := t.ensureAdmin(sender)
	if err != nil {
		return err
	}
	cfg.MinLiquifyAmount = amount
	return putJSON(t.view, state.TreasuryConfigKey(), cfg)
}

// LoadConfig returns the stored configuration.
func (t *Treasury) LoadConfig() (Config, error) {
	var cfg Config
	if err := getJSON(t.view, state.TreasuryConfigKey(), &cfg); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return cfg, fmt.Errorf("%w: treasury not instantiated", ErrConfigurationMissing)
		}
		return cfg, err
	}
	return cfg, nil
}

func (t *Treasury) ensureAdmin(sender asset.Address) (Config, error) {
	cfg, err := t.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if cfg.Admin != sender {
		return cfg, fmt.Errorf("%w: not admin", ErrUnauthorized)
	}
	return cfg, nil
}

func (t *Treasury) loadBinding(key []byte) (PairBinding, bool, error) {
	var binding PairBinding
	if err := getJSON(t.view, key, &binding); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return binding, false, nil
		}
		return binding, false, err
	}
	return binding, true, nil
}
