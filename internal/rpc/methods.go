package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/engine"
	"github.com/trueeth/cw20-reflection/internal/core/rate"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
)

func (s *Server) registerMethods() {
	s.methods["token_instantiate"] = s.tokenInstantiate
	s.methods["treasury_instantiate"] = s.treasuryInstantiate

	s.methods["token_transfer"] = s.tokenTransfer
	s.methods["token_send"] = s.tokenSend
	s.methods["token_transfer_from"] = s.tokenTransferFrom
	s.methods["token_send_from"] = s.tokenSendFrom
	s.methods["token_burn"] = s.tokenBurn
	s.methods["token_burn_from"] = s.tokenBurnFrom
	s.methods["token_mint"] = s.tokenMint
	s.methods["token_increase_allowance"] = s.tokenIncreaseAllowance
	s.methods["token_decrease_allowance"] = s.tokenDecreaseAllowance
	s.methods["token_set_tax_rate"] = s.tokenSetTaxRate
	s.methods["token_set_pair"] = s.tokenSetPair
	s.methods["token_set_treasury"] = s.tokenSetTreasury

	s.methods["treasury_set_liquidity_pair"] = s.treasurySetLiquidityPair
	s.methods["treasury_set_reflection_pair"] = s.treasurySetReflectionPair
	s.methods["treasury_set_min_liquify"] = s.treasurySetMinLiquify
	s.methods["treasury_liquify"] = s.treasuryLiquify
	s.methods["treasury_withdraw_token"] = s.treasuryWithdrawToken

	s.methods["query_balance"] = s.queryBalance
	s.methods["query_token_info"] = s.queryTokenInfo
	s.methods["query_rates"] = s.queryRates
	s.methods["query_tax"] = s.queryTax
	s.methods["query_is_pair"] = s.queryIsPair
	s.methods["query_allowance"] = s.queryAllowance
	s.methods["query_treasury_balance"] = s.queryTreasuryBalance
	s.methods["query_treasury_config"] = s.queryTreasuryConfig
	s.methods["query_last_liquify"] = s.queryLastLiquify
}

func unmarshalParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		return fmt.Errorf("missing params")
	}
	return json.Unmarshal(params, dst)
}

// transferResult is the wire form of an execute outcome.
type transferResult struct {
	Delivered uint64 `json:"delivered"`
	Taxed     uint64 `json:"taxed"`
	Triggered bool   `json:"treasury_triggered"`
	PlanSteps int    `json:"plan_steps"`
}

func wireResult(res engine.Result) transferResult {
	out := transferResult{Triggered: res.Triggered, PlanSteps: len(res.Plan)}
	if res.Transfer != nil {
		out.Delivered = res.Transfer.Delivered
		out.Taxed = res.Transfer.Taxed
	}
	return out
}

func (s *Server) tokenInstantiate(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender asset.Address        `json:"sender"`
		Msg    token.InstantiateMsg `json:"msg"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.InstantiateToken(ctx, p.Sender, p.Msg); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) treasuryInstantiate(ctx context.Context, params json.RawMessage) (any, error) {
	var cfg treasury.Config
	if err := unmarshalParams(params, &cfg); err != nil {
		return nil, err
	}
	if err := s.engine.InstantiateTreasury(ctx, cfg); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) tokenTransfer(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender    asset.Address `json:"sender"`
		Recipient asset.Address `json:"recipient"`
		Amount    uint64        `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.Transfer(ctx, p.Sender, p.Recipient, p.Amount)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenSend(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender   asset.Address   `json:"sender"`
		Contract asset.Address   `json:"contract"`
		Amount   uint64          `json:"amount"`
		Msg      json.RawMessage `json:"msg"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.Send(ctx, p.Sender, p.Contract, p.Amount, p.Msg)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenTransferFrom(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Spender   asset.Address `json:"spender"`
		Owner     asset.Address `json:"owner"`
		Recipient asset.Address `json:"recipient"`
		Amount    uint64        `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.TransferFrom(ctx, p.Spender, p.Owner, p.Recipient, p.Amount)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenSendFrom(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Spender  asset.Address   `json:"spender"`
		Owner    asset.Address   `json:"owner"`
		Contract asset.Address   `json:"contract"`
		Amount   uint64          `json:"amount"`
		Msg      json.RawMessage `json:"msg"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.SendFrom(ctx, p.Spender, p.Owner, p.Contract, p.Amount, p.Msg)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenBurn(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender asset.Address `json:"sender"`
		Amount uint64        `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.Burn(ctx, p.Sender, p.Amount)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenBurnFrom(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Spender asset.Address `json:"spender"`
		Owner   asset.Address `json:"owner"`
		Amount  uint64        `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.BurnFrom(ctx, p.Spender, p.Owner, p.Amount)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenMint(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender    asset.Address `json:"sender"`
		Recipient asset.Address `json:"recipient"`
		Amount    uint64        `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.Mint(ctx, p.Sender, p.Recipient, p.Amount)
	if err != nil {
		return nil, err
	}
	return wireResult(res), nil
}

func (s *Server) tokenIncreaseAllowance(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Owner   asset.Address `json:"owner"`
		Spender asset.Address `json:"spender"`
		Amount  uint64        `json:"amount"`
		Expires *uint64       `json:"expires,omitempty"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.IncreaseAllowance(ctx, p.Owner, p.Spender, p.Amount, p.Expires); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) tokenDecreaseAllowance(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Owner   asset.Address `json:"owner"`
		Spender asset.Address `json:"spender"`
		Amount  uint64        `json:"amount"`
		Expires *uint64       `json:"expires,omitempty"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.DecreaseAllowance(ctx, p.Owner, p.Spender, p.Amount, p.Expires); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) tokenSetTaxRate(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender     asset.Address `json:"sender"`
		TaxRate    rate.Rate     `json:"tax_rate"`
		Reflection rate.Rate     `json:"reflection_rate"`
		Burn       rate.Rate     `json:"burn_rate"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetTaxRate(ctx, p.Sender, p.TaxRate, p.Reflection, p.Burn); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) tokenSetPair(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender   asset.Address `json:"sender"`
		Contract asset.Address `json:"contract"`
		Enable   bool          `json:"enable"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetPair(ctx, p.Sender, p.Contract, p.Enable); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) tokenSetTreasury(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender   asset.Address `json:"sender"`
		Treasury asset.Address `json:"treasury"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetTreasury(ctx, p.Sender, p.Treasury); err != nil {
		return nil, err
	}
	return ok(), nil
}

type pairBindingParams struct {
	Sender       asset.Address `json:"sender"`
	AssetInfos   asset.Pair    `json:"asset_infos"`
	PairContract asset.Address `json:"pair_contract"`
}

func (s *Server) treasurySetLiquidityPair(ctx context.Context, params json.RawMessage) (any, error) {
	var p pairBindingParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetLiquidityPair(ctx, p.Sender, p.AssetInfos, p.PairContract); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) treasurySetReflectionPair(ctx context.Context, params json.RawMessage) (any, error) {
	var p pairBindingParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetReflectionPair(ctx, p.Sender, p.AssetInfos, p.PairContract); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) treasurySetMinLiquify(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender asset.Address `json:"sender"`
		Amount uint64        `json:"min_liquify_amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.engine.SetMinLiquify(ctx, p.Sender, p.Amount); err != nil {
		return nil, err
	}
	return ok(), nil
}

func (s *Server) treasuryLiquify(ctx context.Context, _ json.RawMessage) (any, error) {
	res, err := s.engine.Liquify(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"plan_steps": len(res.Plan)}, nil
}

func (s *Server) treasuryWithdrawToken(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Sender asset.Address `json:"sender"`
		Token  asset.Address `json:"token"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	res, err := s.engine.WithdrawToken(ctx, p.Sender, p.Token)
	if err != nil {
		return nil, err
	}
	return map[string]any{"plan_steps": len(res.Plan)}, nil
}

func (s *Server) queryBalance(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Address asset.Address `json:"address"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	balance, err := s.engine.Balance(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"balance": balance}, nil
}

func (s *Server) queryTokenInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.engine.TokenInfo(ctx)
}

func (s *Server) queryRates(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.engine.Rates(ctx)
}

func (s *Server) queryTax(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Amount uint64 `json:"amount"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	return s.engine.QueryTax(ctx, p.Amount)
}

func (s *Server) queryIsPair(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Address asset.Address `json:"address"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	isPair, err := s.engine.IsPair(ctx, p.Address)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"is_pair": isPair}, nil
}

func (s *Server) queryAllowance(ctx context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Owner   asset.Address `json:"owner"`
		Spender asset.Address `json:"spender"`
	}
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	return s.engine.Allowance(ctx, p.Owner, p.Spender)
}

func (s *Server) queryTreasuryBalance(ctx context.Context, _ json.RawMessage) (any, error) {
	balance, err := s.engine.TreasuryBalance(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"balance": balance}, nil
}

func (s *Server) queryTreasuryConfig(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.engine.TreasuryConfig(ctx)
}

func (s *Server) queryLastLiquify(ctx context.Context, _ json.RawMessage) (any, error) {
	last, err := s.engine.LastLiquify(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"last_liquify": last}, nil
}

func ok() map[string]bool {
	return map[string]bool{"ok": true}
}
