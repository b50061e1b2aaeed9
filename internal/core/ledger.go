package core

import "math"

// Rates holds the platform fee and the partner profit split. These come from
// configuration, never from literals at the call sites.
type Rates struct {
	FeePercent   float64
	BlueShare    float64
	CempakaShare float64
}

// DefaultRates is the split the shop has run on since opening: Shopee keeps
// 17% of gross, Blue takes 40% of profit, Cempaka 60%.
var DefaultRates = Rates{
	FeePercent:   0.17,
	BlueShare:    0.4,
	CempakaShare: 0.6,
}

// Validate checks the rates are usable: fee in [0,1) and shares positive
// numbers summing to one.
func (r Rates) Validate() error {
	if r.FeePercent < 0 || r.FeePercent >= 1 || math.IsNaN(r.FeePercent) {
		return ErrInvalidAmount
	}
	if r.BlueShare < 0 || r.CempakaShare < 0 {
		return ErrInvalidAmount
	}
	if math.Abs(r.BlueShare+r.CempakaShare-1) > 1e-9 {
		return ErrInvalidAmount
	}
	return nil
}

// Compute resolves one sale line into its full money breakdown.
//
// Package products sell by the pack: quantity counts packs and
// ActualQuantity expands to units for analytics, but every money field is
// computed on quantity. Profit may be negative; a loss propagates into both
// partner shares unclamped. Pure function, no rounding.
func Compute(p Product, quantity float64, rates Rates) (Breakdown, error) {
	if err := p.Validate(); err != nil {
		return Breakdown{}, err
	}
	if quantity <= 0 || math.IsInf(quantity, 0) || math.IsNaN(quantity) {
		return Breakdown{}, ErrInvalidQuantity
	}
	if err := rates.Validate(); err != nil {
		return Breakdown{}, err
	}

	actual := quantity
	if p.Type == ProductPackage && p.PackageSize > 0 {
		actual = quantity * float64(p.PackageSize)
	}

	total := p.SellPrice * quantity
	fee := total * rates.FeePercent
	net := total - fee
	cost := p.CostPrice * quantity
	profit := net - cost

	return Breakdown{
		Quantity:         quantity,
		ActualQuantity:   actual,
		SellPrice:        p.SellPrice,
		TotalSellPrice:   total,
		ShopeeFeePercent: rates.FeePercent,
		ShopeeDiscount:   fee,
		NetIncome:        net,
		CostPrice:        p.CostPrice,
		TotalCost:        cost,
		Profit:           profit,
		BluePack:         profit * rates.BlueShare,
		CempakaPack:      profit * rates.CempakaShare,
	}, nil
}
