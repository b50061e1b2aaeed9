package core

import "testing"

func txWith(cost, profit float64) Transaction {
	return Transaction{
		Breakdown: Breakdown{
			TotalSellPrice: cost + profit, // not used by the assertions below
			TotalCost:      cost,
			Profit:         profit,
			BluePack:       profit * 0.4,
			CempakaPack:    profit * 0.6,
		},
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s != (BalanceSummary{IsPaidOff: true}) {
		t.Fatalf("empty summary not all-zero paid-off: %+v", s)
	}
}

func TestSummarizeTotals(t *testing.T) {
	txs := []Transaction{
		{Breakdown: Breakdown{TotalSellPrice: 2020, ShopeeDiscount: 343.4, NetIncome: 1676.6, TotalCost: 1220, Profit: 456.6, BluePack: 182.64, CempakaPack: 273.96}},
		{Breakdown: Breakdown{TotalSellPrice: 1000, ShopeeDiscount: 170, NetIncome: 830, TotalCost: 500, Profit: 330, BluePack: 132, CempakaPack: 198}},
	}
	s := Summarize(txs, nil, nil)

	if !almostEqual(s.TotalRevenue, 3020) {
		t.Fatalf("revenue %v", s.TotalRevenue)
	}
	if !almostEqual(s.TotalFee, 513.4) {
		t.Fatalf("fee %v", s.TotalFee)
	}
	if !almostEqual(s.TotalNet, 2506.6) {
		t.Fatalf("net %v", s.TotalNet)
	}
	if !almostEqual(s.TotalCost, 1720) {
		t.Fatalf("cost %v", s.TotalCost)
	}
	if !almostEqual(s.TotalProfit, 786.6) {
		t.Fatalf("profit %v", s.TotalProfit)
	}
	if !almostEqual(s.TotalBlue+s.TotalCempaka, s.TotalProfit) {
		t.Fatalf("shares %v + %v != %v", s.TotalBlue, s.TotalCempaka, s.TotalProfit)
	}
	if s.IsPaidOff {
		t.Fatalf("outstanding capital should block paid-off")
	}
}

func TestCapitalRepayment(t *testing.T) {
	txs := []Transaction{txWith(500_000, 0)}

	cases := []struct {
		name        string
		withdrawn   float64
		outstanding float64
		paidOff     bool
	}{
		{"fully repaid", 500_000, 0, true},
		{"partially repaid", 300_000, 200_000, false},
		{"over repaid", 600_000, -100_000, true},
		{"untouched", 0, 500_000, false},
	}
	for _, tc := range cases {
		var cempaka []WithdrawalEvent
		if tc.withdrawn > 0 {
			cempaka = append(cempaka, WithdrawalEvent{Amount: tc.withdrawn, Date: "2025-01-10", Type: WithdrawalCapital})
		}
		s := Summarize(txs, nil, cempaka)
		if !almostEqual(s.CapitalOutstanding, tc.outstanding) {
			t.Fatalf("%s: outstanding %v, want %v", tc.name, s.CapitalOutstanding, tc.outstanding)
		}
		if s.IsPaidOff != tc.paidOff {
			t.Fatalf("%s: paidOff %v, want %v", tc.name, s.IsPaidOff, tc.paidOff)
		}
	}
}

func TestCapitalUnaffectedByProfitWithdrawals(t *testing.T) {
	txs := []Transaction{txWith(1000, 600)}
	cempaka := []WithdrawalEvent{
		{Amount: 200, Date: "2025-02-01", Type: WithdrawalProfit},
	}
	s := Summarize(txs, nil, cempaka)
	if !almostEqual(s.CapitalOutstanding, 1000) {
		t.Fatalf("profit withdrawal moved capital: %v", s.CapitalOutstanding)
	}
	if !almostEqual(s.CempakaProfitWithdrawn, 200) {
		t.Fatalf("profit withdrawn %v", s.CempakaProfitWithdrawn)
	}
	if !almostEqual(s.CempakaProfitRemaining, 600*0.6-200) {
		t.Fatalf("profit remaining %v", s.CempakaProfitRemaining)
	}

	// And the other way round.
	capOnly := Summarize(txs, nil, []WithdrawalEvent{{Amount: 300, Date: "2025-02-02", Type: WithdrawalCapital}})
	if !almostEqual(capOnly.CempakaProfitRemaining, 600*0.6) {
		t.Fatalf("capital withdrawal moved profit share: %v", capOnly.CempakaProfitRemaining)
	}
}

func TestBlueSingleStream(t *testing.T) {
	txs := []Transaction{txWith(0, 1000)}
	blue := []WithdrawalEvent{
		{Amount: 150, Date: "2025-03-01"},
		{Amount: 100, Date: "2025-03-15"},
	}
	s := Summarize(txs, blue, nil)
	if !almostEqual(s.BlueWithdrawn, 250) {
		t.Fatalf("blue withdrawn %v", s.BlueWithdrawn)
	}
	if !almostEqual(s.BlueRemaining, 400-250) {
		t.Fatalf("blue remaining %v", s.BlueRemaining)
	}
}

func TestOverWithdrawalStaysSigned(t *testing.T) {
	txs := []Transaction{txWith(0, 100)}
	blue := []WithdrawalEvent{{Amount: 90, Date: "2025-04-01"}}
	s := Summarize(txs, blue, nil)
	if !almostEqual(s.BlueRemaining, -50) {
		t.Fatalf("blue remaining %v, want -50", s.BlueRemaining)
	}

	clamped := s.ClampDisplay()
	if clamped.BlueRemaining != 0 {
		t.Fatalf("display clamp left %v", clamped.BlueRemaining)
	}
	// Clamping must not touch the source value.
	if !almostEqual(s.BlueRemaining, -50) {
		t.Fatalf("clamp mutated the signed summary")
	}
}
