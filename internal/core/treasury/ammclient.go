package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
)

// HTTPPairQuerier queries venue contracts through a JSON gateway. Each query
// posts {"contract": ..., "query": {...}} and decodes the response body.
type HTTPPairQuerier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPairQuerier creates a querier against the gateway endpoint.
func NewHTTPPairQuerier(endpoint string) *HTTPPairQuerier {
	return &HTTPPairQuerier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayQuery struct {
	Contract asset.Address   `json:"contract"`
	Query    json.RawMessage `json:"query"`
}

func (q *HTTPPairQuerier) query(ctx context.Context, contract asset.Address, msg any, out any) error {
	rawMsg, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	body, err := json.Marshal(gatewayQuery{Contract: contract, Query: rawMsg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("venue gateway query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("venue gateway query: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (q *HTTPPairQuerier) PairInfo(ctx context.Context, contract asset.Address) (PairInfo, error) {
	var info PairInfo
	msg := map[string]any{"pair": map[string]any{}}
	if err := q.query(ctx, contract, msg, &info); err != nil {
		return PairInfo{}, err
	}
	return info, nil
}

func (q *HTTPPairQuerier) Simulate(ctx context.Context, contract asset.Address, offer AssetAmount) (Simulation, error) {
	var sim Simulation
	msg := map[string]any{"simulation": map[string]any{"offer_asset": offer}}
	if err := q.query(ctx, contract, msg, &sim); err != nil {
		return Simulation{}, err
	}
	return sim, nil
}

// TokenBalance queries a token contract's balance record for owner through
// the gateway.
func (q *HTTPPairQuerier) TokenBalance(ctx context.Context, token, owner asset.Address) (uint64, error) {
	var resp struct {
		Balance uint64 `json:"balance"`
	}
	msg := map[string]any{"balance": map[string]any{"address": owner}}
	if err := q.query(ctx, token, msg, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// UnavailableQuerier rejects every venue query. It backs deployments that
// have no venue gateway configured: pair bindings and liquify planning fail
// cleanly instead of hanging.
type UnavailableQuerier struct{}

func (UnavailableQuerier) PairInfo(context.Context, asset.Address) (PairInfo, error) {
	return PairInfo{}, fmt.Errorf("%w: no venue gateway configured", ErrConfigurationMissing)
}

func (UnavailableQuerier) Simulate(context.Context, asset.Address, AssetAmount) (Simulation, error) {
	return Simulation{}, fmt.Errorf("%w: no venue gateway configured", ErrConfigurationMissing)
}

// UnavailableBalances is the matching balance querier stub.
type UnavailableBalances struct{}

func (UnavailableBalances) TokenBalance(context.Context, asset.Address, asset.Address) (uint64, error) {
	return 0, fmt.Errorf("%w: no venue gateway configured", ErrConfigurationMissing)
}
