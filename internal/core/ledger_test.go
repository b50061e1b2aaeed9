package core

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestComputeReferenceScenario(t *testing.T) {
	p := Product{ID: "sub-100", Code: "SUB", Name: "Sambal Sub 100g", Type: ProductUnit, SellPrice: 1010, CostPrice: 610}

	b, err := Compute(p, 2, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	want := map[string]float64{
		"totalSellPrice": 2020,
		"shopeeDiscount": 343.4,
		"netIncome":      1676.6,
		"totalCost":      1220,
		"profit":         456.6,
		"bluePack":       182.64,
		"cempakaPack":    273.96,
	}
	got := map[string]float64{
		"totalSellPrice": b.TotalSellPrice,
		"shopeeDiscount": b.ShopeeDiscount,
		"netIncome":      b.NetIncome,
		"totalCost":      b.TotalCost,
		"profit":         b.Profit,
		"bluePack":       b.BluePack,
		"cempakaPack":    b.CempakaPack,
	}
	for field, w := range want {
		if !almostEqual(got[field], w) {
			t.Fatalf("%s = %v, want %v", field, got[field], w)
		}
	}
	if b.ShopeeFeePercent != DefaultRates.FeePercent {
		t.Fatalf("fee percent %v, want %v", b.ShopeeFeePercent, DefaultRates.FeePercent)
	}
}

func TestComputeInvariants(t *testing.T) {
	products := []Product{
		{ID: "a", Code: "A", Name: "a", Type: ProductUnit, SellPrice: 1010, CostPrice: 610},
		{ID: "b", Code: "B", Name: "b", Type: ProductUnit, SellPrice: 99.5, CostPrice: 120}, // loss maker
		{ID: "c", Code: "C", Name: "c", Type: ProductPackage, SellPrice: 15000, CostPrice: 9000, PackageSize: 500},
	}
	quantities := []float64{1, 2, 3, 0.5, 7, 100}

	for _, p := range products {
		for _, q := range quantities {
			b, err := Compute(p, q, DefaultRates)
			if err != nil {
				t.Fatalf("%s q=%v: %v", p.ID, q, err)
			}
			if !almostEqual(b.TotalSellPrice, p.SellPrice*q) {
				t.Fatalf("%s q=%v: totalSellPrice %v", p.ID, q, b.TotalSellPrice)
			}
			if !almostEqual(b.ShopeeDiscount, b.TotalSellPrice*DefaultRates.FeePercent) {
				t.Fatalf("%s q=%v: fee %v", p.ID, q, b.ShopeeDiscount)
			}
			if !almostEqual(b.NetIncome, b.TotalSellPrice-b.ShopeeDiscount) {
				t.Fatalf("%s q=%v: net %v", p.ID, q, b.NetIncome)
			}
			if !almostEqual(b.TotalCost, p.CostPrice*q) {
				t.Fatalf("%s q=%v: cost %v", p.ID, q, b.TotalCost)
			}
			if !almostEqual(b.Profit, b.NetIncome-b.TotalCost) {
				t.Fatalf("%s q=%v: profit %v", p.ID, q, b.Profit)
			}
			// Conservation: the split always reassembles the profit.
			if !almostEqual(b.BluePack+b.CempakaPack, b.Profit) {
				t.Fatalf("%s q=%v: split %v + %v != %v", p.ID, q, b.BluePack, b.CempakaPack, b.Profit)
			}
		}
	}
}

func TestComputeLossPropagatesNegativeShares(t *testing.T) {
	p := Product{ID: "loss", Code: "L", Name: "loss", Type: ProductUnit, SellPrice: 100, CostPrice: 200}
	b, err := Compute(p, 1, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.Profit >= 0 {
		t.Fatalf("expected negative profit, got %v", b.Profit)
	}
	if b.BluePack >= 0 || b.CempakaPack >= 0 {
		t.Fatalf("loss must hit both shares, got %v / %v", b.BluePack, b.CempakaPack)
	}
}

func TestComputePackageQuantity(t *testing.T) {
	pkg := Product{ID: "pkt", Code: "PKT", Name: "pkt", Type: ProductPackage, SellPrice: 15000, CostPrice: 9000, PackageSize: 500}

	b, err := Compute(pkg, 3, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.ActualQuantity != 1500 {
		t.Fatalf("actualQuantity = %v, want 1500", b.ActualQuantity)
	}
	// Money math runs on pack count, not expanded units.
	if !almostEqual(b.TotalSellPrice, 45000) {
		t.Fatalf("totalSellPrice = %v, want 45000", b.TotalSellPrice)
	}
	if !almostEqual(b.TotalCost, 27000) {
		t.Fatalf("totalCost = %v, want 27000", b.TotalCost)
	}

	unit := Product{ID: "u", Code: "U", Name: "u", Type: ProductUnit, SellPrice: 10, CostPrice: 5}
	ub, err := Compute(unit, 4, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if ub.ActualQuantity != 4 {
		t.Fatalf("unit actualQuantity = %v, want 4", ub.ActualQuantity)
	}
}

func TestComputeIdempotent(t *testing.T) {
	p := Product{ID: "sub-100", Code: "SUB", Name: "s", Type: ProductUnit, SellPrice: 1010, CostPrice: 610}
	a, err := Compute(p, 2, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b, err := Compute(p, 2, DefaultRates)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if a != b {
		t.Fatalf("same input produced different breakdowns: %+v vs %+v", a, b)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	good := Product{ID: "ok", Code: "OK", Name: "ok", Type: ProductUnit, SellPrice: 10, CostPrice: 5}
	cases := []struct {
		name string
		p    Product
		q    float64
		want error
	}{
		{"zero quantity", good, 0, ErrInvalidQuantity},
		{"negative quantity", good, -1, ErrInvalidQuantity},
		{"nan quantity", good, math.NaN(), ErrInvalidQuantity},
		{"inf quantity", good, math.Inf(1), ErrInvalidQuantity},
		{"missing id", Product{Code: "X", Name: "x", Type: ProductUnit}, 1, ErrUnknownProduct},
		{"bad type", Product{ID: "x", Name: "x", Type: "crate"}, 1, ErrUnknownProduct},
		{"package without size", Product{ID: "x", Name: "x", Type: ProductPackage}, 1, ErrUnknownProduct},
	}
	for _, tc := range cases {
		if _, err := Compute(tc.p, tc.q, DefaultRates); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestRatesValidate(t *testing.T) {
	if err := DefaultRates.Validate(); err != nil {
		t.Fatalf("default rates invalid: %v", err)
	}
	bads := []Rates{
		{FeePercent: -0.1, BlueShare: 0.4, CempakaShare: 0.6},
		{FeePercent: 1, BlueShare: 0.4, CempakaShare: 0.6},
		{FeePercent: 0.17, BlueShare: 0.5, CempakaShare: 0.6},
		{FeePercent: 0.17, BlueShare: -0.4, CempakaShare: 1.4},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
