package core

// BalanceSummary is the derived, never-stored rollup of the full transaction
// and withdrawal history. It is recomputed from a fresh snapshot on every
// read; there is no incremental state behind it.
type BalanceSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalFee     float64 `json:"totalFee"`
	TotalNet     float64 `json:"totalNet"`
	TotalCost    float64 `json:"totalCost"`
	TotalProfit  float64 `json:"totalProfit"`
	TotalBlue    float64 `json:"totalBlue"`
	TotalCempaka float64 `json:"totalCempaka"`

	// Cempaka fronted the stock money. Capital-typed withdrawals repay it
	// against TotalCost; profit-typed ones draw down her profit share.
	CapitalWithdrawn   float64 `json:"capitalWithdrawn"`
	CapitalOutstanding float64 `json:"capitalOutstanding"`
	IsPaidOff          bool    `json:"isPaidOff"`

	CempakaProfitWithdrawn float64 `json:"cempakaProfitWithdrawn"`
	CempakaProfitRemaining float64 `json:"cempakaProfitRemaining"`

	// Blue has a single untyped stream reconciled against his profit share.
	BlueWithdrawn float64 `json:"blueWithdrawn"`
	BlueRemaining float64 `json:"blueRemaining"`
}

// Summarize folds the complete record sets into running balances.
//
// Remainders are left signed: an over-withdrawn share goes negative here and
// is clamped to zero only at display time, so the raw value stays queryable.
// Empty inputs produce the all-zero summary with IsPaidOff true.
func Summarize(txs []Transaction, blue []WithdrawalEvent, cempaka []WithdrawalEvent) BalanceSummary {
	var s BalanceSummary
	for _, t := range txs {
		s.TotalRevenue += t.TotalSellPrice
		s.TotalFee += t.ShopeeDiscount
		s.TotalNet += t.NetIncome
		s.TotalCost += t.TotalCost
		s.TotalProfit += t.Profit
		s.TotalBlue += t.BluePack
		s.TotalCempaka += t.CempakaPack
	}
	for _, w := range blue {
		s.BlueWithdrawn += w.Amount
	}
	for _, w := range cempaka {
		switch w.Type {
		case WithdrawalProfit:
			s.CempakaProfitWithdrawn += w.Amount
		default:
			// Untyped legacy rows in this stream count as capital.
			s.CapitalWithdrawn += w.Amount
		}
	}

	s.CapitalOutstanding = s.TotalCost - s.CapitalWithdrawn
	s.IsPaidOff = s.CapitalOutstanding <= 0
	s.CempakaProfitRemaining = s.TotalCempaka - s.CempakaProfitWithdrawn
	s.BlueRemaining = s.TotalBlue - s.BlueWithdrawn
	return s
}

// ClampDisplay returns a copy with negative remainders floored at zero.
// For rendering only; the signed originals are the record of truth.
func (s BalanceSummary) ClampDisplay() BalanceSummary {
	if s.CapitalOutstanding < 0 {
		s.CapitalOutstanding = 0
	}
	if s.CempakaProfitRemaining < 0 {
		s.CempakaProfitRemaining = 0
	}
	if s.BlueRemaining < 0 {
		s.BlueRemaining = 0
	}
	return s
}
