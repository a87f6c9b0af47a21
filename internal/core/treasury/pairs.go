package treasury

import (
	"context"
	"fmt"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/state"
)

// SetLiquidityPair binds the pair the liquify leg deposits into. The base
// asset must be the reflective token itself; the venue's listing must carry
// both assets, and once the reflection pair is bound the two quote assets
// must agree. The venue's liquidity share token is recorded so withdrawal
// can protect it.
func (t *Treasury) SetLiquidityPair(ctx context.Context, sender asset.Address, assets asset.Pair, pairContract asset.Address) error {
	if _, err := t.ensureAdmin(sender); err != nil {
		return err
	}
	if err := assets.Validate(); err != nil {
		return err
	}
	if err := asset.ValidateAddress(pairContract); err != nil {
		return err
	}

	reflection, bound, err := t.loadBinding(state.ReflectionPairKey())
	if err != nil {
		return err
	}
	if bound && !reflection.Assets.Quote().Equal(assets.Quote()) {
		return fmt.Errorf("%w: liquidity quote %s, reflection quote %s",
			ErrMismatchedQuoteAsset, assets.Quote(), reflection.Assets.Quote())
	}

	info, err := t.pairs.PairInfo(ctx, pairContract)
	if err != nil {
		return err
	}
	if !info.AssetInfos.Base().IsToken() {
		return ErrBaseNotToken
	}
	if err := ensureListed(info, assets); err != nil {
		return err
	}

	if err := t.view.Set(state.LiquidityTokenKey(), []byte(info.LiquidityToken)); err != nil {
		return err
	}
	return putJSON(t.view, state.LiquidityPairKey(), PairBinding{
		Assets:   assets,
		Contract: pairContract,
	})
}

// SetReflectionPair binds the pair the reflection leg targets: base is the
// reflection target asset, quote the shared intermediate asset.
func (t *Treasury) SetReflectionPair(ctx context.Context, sender asset.Address, assets asset.Pair, pairContract asset.Address) error {
	if _, err := t.ensureAdmin(sender); err != nil {
		return err
	}
	if err := assets.Validate(); err != nil {
		return err
	}
	if err := asset.ValidateAddress(pairContract); err != nil {
		return err
	}

	liquidity, bound, err := t.loadBinding(state.LiquidityPairKey())
	if err != nil {
		return err
	}
	if bound && !liquidity.Assets.Quote().Equal(assets.Quote()) {
		return fmt.Errorf("%w: reflection quote %s, liquidity quote %s",
			ErrMismatchedQuoteAsset, assets.Quote(), liquidity.Assets.Quote())
	}

	info, err := t.pairs.PairInfo(ctx, pairContract)
	if err != nil {
		return err
	}
	if err := ensureListed(info, assets); err != nil {
		return err
	}

	return putJSON(t.view, state.ReflectionPairKey(), PairBinding{
		Assets:   assets,
		Contract: pairContract,
	})
}

// ensureListed checks that both bound assets appear in the venue's reported
// listing, in either order.
func ensureListed(info PairInfo, assets asset.Pair) error {
	for i := range assets {
		if !info.AssetInfos.Contains(assets[i]) {
			return fmt.Errorf("%w: %s", ErrPairAssetNotListed, assets[i])
		}
	}
	return nil
}

// LiquidityToken returns the recorded liquidity share token, empty when no
// liquidity pair was ever bound.
func (t *Treasury) LiquidityToken() (asset.Address, error) {
	data, err := t.view.Get(state.LiquidityTokenKey())
	if err != nil {
		if err == state.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return asset.Address(data), nil
}

// LiquidityPair returns the bound liquidity pair.
func (t *Treasury) LiquidityPair() (PairBinding, bool, error) {
	return t.loadBinding(state.LiquidityPairKey())
}

// ReflectionPair returns the bound reflection pair.
func (t *Treasury) ReflectionPair() (PairBinding, bool, error) {
	return t.loadBinding(state.ReflectionPairKey())
}
