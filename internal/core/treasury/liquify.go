package treasury

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// swapHook is the hook message carried by the swap leg of the liquidity
// split. All optional guards stay unset.
type swapHook struct {
	Swap struct {
		BeliefPrice *string `json:"belief_price"`
		MaxSpread   *string `json:"max_spread"`
		To          *string `json:"to"`
	} `json:"swap"`
}

// routerHook is the hook message for the routed reflection swap. No minimum
// receive; proceeds return to the sender.
type routerHook struct {
	ExecuteSwapOperations struct {
		Operations     []SwapHop `json:"operations"`
		MinimumReceive *uint64   `json:"minimum_receive"`
		To             *string   `json:"to"`
	} `json:"execute_swap_operations"`
}

// Liquify plans one recycling run over the treasury's token balance. The
// balance splits by the token's current reflection and burn rates, with the
// remainder becoming the liquidity leg:
//
//  1. liquidity: grant the venue an allowance for half, swap the other half
//     for the quote asset sized by a live simulation, then deposit both.
//  2. reflection: sell through the router in two hops, token to quote to
//     reflection target.
//  3. burn: destroy the burn share.
//
// Both pair bindings are required before anything else is considered; only a
// fully configured treasury may no-op below the minimum. Liquify does not
// read or write the trigger throttle.
func (t *Treasury) Liquify(ctx context.Context, rates token.RateConfig, balance uint64) (Plan, error) {
	cfg, err := t.LoadConfig()
	if err != nil {
		return nil, err
	}

	liqBinding, bound, err := t.loadBinding(state.LiquidityPairKey())
	if err != nil {
		return nil, err
	}
	if !bound {
		return nil, fmt.Errorf("%w: liquidity pair not bound", ErrConfigurationMissing)
	}
	reflBinding, bound, err := t.loadBinding(state.ReflectionPairKey())
	if err != nil {
		return nil, err
	}
	if !bound {
		return nil, fmt.Errorf("%w: reflection pair not bound", ErrConfigurationMissing)
	}

	if balance < cfg.MinLiquifyAmount {
		return Plan{}, nil
	}

	reflect := rates.ReflectionRate.MulFloor(balance)
	burn := rates.BurnRate.MulFloor(balance)
	if reflect > balance || burn > balance-reflect {
		return nil, fmt.Errorf("%w: balance %d, reflection %d, burn %d",
			ErrInvalidSplit, balance, reflect, burn)
	}
	liquidity := balance - reflect - burn

	var plan Plan

	if liquidity > 0 {
		swapAmount := liquidity / 2
		keepAmount := liquidity - swapAmount

		plan = append(plan, GrantAllowance{
			Token:   cfg.Token,
			Spender: liqBinding.Contract,
			Amount:  keepAmount,
		})

		sim, err := t.pairs.Simulate(ctx, liqBinding.Contract, AssetAmount{
			Info:   liqBinding.Assets.Base(),
			Amount: swapAmount,
		})
		if err != nil {
			return nil, err
		}

		hook, err := json.Marshal(swapHook{})
		if err != nil {
			return nil, err
		}
		plan = append(plan, TokenSend{
			Token:    cfg.Token,
			Contract: liqBinding.Contract,
			Amount:   swapAmount,
			Msg:      hook,
		})

		deposit := ProvideLiquidity{
			Contract: liqBinding.Contract,
			Assets: [2]AssetAmount{
				{Info: liqBinding.Assets.Base(), Amount: keepAmount},
				{Info: liqBinding.Assets.Quote(), Amount: sim.ReturnAmount},
			},
		}
		quote := liqBinding.Assets.Quote()
		if quote.IsNative() {
			deposit.AttachedFunds = &AssetAmount{Info: quote, Amount: sim.ReturnAmount}
		} else {
			plan = append(plan, GrantAllowance{
				Token:   quote.Contract,
				Spender: liqBinding.Contract,
				Amount:  sim.ReturnAmount,
			})
		}
		plan = append(plan, deposit)
	}

	if reflect > 0 {
		plan = append(plan, RouterSwap{
			Router: cfg.Router,
			Token:  cfg.Token,
			Amount: reflect,
			Operations: []SwapHop{
				{Offer: asset.Token(cfg.Token), Ask: reflBinding.Assets.Quote()},
				{Offer: reflBinding.Assets.Quote(), Ask: reflBinding.Assets.Base()},
			},
		})
	}

	if burn > 0 {
		plan = append(plan, TokenBurn{Token: cfg.Token, Amount: burn})
	}

	return plan, nil
}

// RouterHookFor renders the router hook message a dispatcher would attach
// when executing a RouterSwap as a token send.
func RouterHookFor(swap RouterSwap) (json.RawMessage, error) {
	var hook routerHook
	hook.ExecuteSwapOperations.Operations = swap.Operations
	return json.Marshal(hook)
}
