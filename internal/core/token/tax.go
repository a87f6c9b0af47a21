package token

// Breakdown is the derived tax split for one transfer amount. It is never
// stored; every taxed transfer recomputes it from the current RateConfig.
type Breakdown struct {
	TaxedAmount      uint64 `json:"taxed_amount"`
	AfterTax         uint64 `json:"after_tax"`
	ReflectionAmount uint64 `json:"reflection_amount"`
	BurnAmount       uint64 `json:"burn_amount"`
	LiquidityAmount  uint64 `json:"liquidity_amount"`
}

// ComputeTax splits amount according to the rate config. Every rate
// application floors, so for any valid config:
//
//	ReflectionAmount + BurnAmount <= TaxedAmount
//	LiquidityAmount >= 0
//	TaxedAmount + AfterTax == amount
func ComputeTax(amount uint64, rates RateConfig) Breakdown {
	taxed := rates.TaxRate.MulFloor(amount)
	reflection := rates.ReflectionRate.MulFloor(taxed)
	burn := rates.BurnRate.MulFloor(taxed)
	return Breakdown{
		TaxedAmount:      taxed,
		AfterTax:         amount - taxed,
		ReflectionAmount: reflection,
		BurnAmount:       burn,
		LiquidityAmount:  taxed - reflection - burn,
	}
}
