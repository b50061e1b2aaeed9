package core

import "testing"

func datedTx(date, productID string, qty, revenue float64) Transaction {
	return Transaction{
		Date:        date,
		ProductID:   productID,
		ProductCode: productID,
		ProductName: productID,
		Breakdown: Breakdown{
			Quantity:       qty,
			TotalSellPrice: revenue,
		},
	}
}

func TestFilterByRangeInclusive(t *testing.T) {
	txs := []Transaction{
		datedTx("2025-01-09", "a", 1, 10),
		datedTx("2025-01-10", "a", 1, 10), // == start
		datedTx("2025-01-15", "a", 1, 10),
		datedTx("2025-01-20", "a", 1, 10), // == end
		datedTx("2025-01-21", "a", 1, 10),
	}

	got := FilterByRange(txs, "2025-01-10", "2025-01-20")
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].Date != "2025-01-10" || got[2].Date != "2025-01-20" {
		t.Fatalf("bounds not inclusive: %v .. %v", got[0].Date, got[2].Date)
	}
}

func TestFilterByRangeOpenSides(t *testing.T) {
	txs := []Transaction{
		datedTx("2025-01-01", "a", 1, 10),
		datedTx("2025-02-01", "a", 1, 10),
		datedTx("2025-03-01", "a", 1, 10),
	}
	if got := FilterByRange(txs, "", "2025-02-01"); len(got) != 2 {
		t.Fatalf("open start: got %d", len(got))
	}
	if got := FilterByRange(txs, "2025-02-01", ""); len(got) != 2 {
		t.Fatalf("open end: got %d", len(got))
	}
	if got := FilterByRange(txs, "", ""); len(got) != 3 {
		t.Fatalf("unbounded: got %d", len(got))
	}
}

func TestFilterByRangeExcludesUndated(t *testing.T) {
	txs := []Transaction{
		datedTx("", "a", 1, 10),
		datedTx("2025-01-15", "a", 1, 10),
	}
	got := FilterByRange(txs, "2025-01-01", "2025-01-31")
	if len(got) != 1 || got[0].Date != "2025-01-15" {
		t.Fatalf("undated record leaked into bounded query: %+v", got)
	}
}

func TestGroupByDay(t *testing.T) {
	txs := []Transaction{
		datedTx("2025-01-10", "a", 2, 100),
		datedTx("2025-01-12", "a", 1, 40),
		datedTx("2025-01-10", "b", 3, 60),
	}
	groups := GroupByDay(txs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 days, got %d", len(groups))
	}
	// Descending by date.
	if groups[0].Key != "2025-01-12" || groups[1].Key != "2025-01-10" {
		t.Fatalf("order: %v, %v", groups[0].Key, groups[1].Key)
	}
	day := groups[1]
	if day.Count != 2 || !almostEqual(day.Quantity, 5) || !almostEqual(day.TotalRevenue, 160) {
		t.Fatalf("day sums: %+v", day)
	}
}

func TestGroupByProductAndMonth(t *testing.T) {
	txs := []Transaction{
		datedTx("2025-01-10", "sub-100", 2, 100),
		datedTx("2025-02-01", "pack-500", 1, 40),
		datedTx("2025-02-11", "sub-100", 1, 50),
	}

	products := GroupByProduct(txs)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	// First-seen order is preserved for product groups.
	if products[0].Key != "sub-100" || products[1].Key != "pack-500" {
		t.Fatalf("product order: %v, %v", products[0].Key, products[1].Key)
	}
	if products[0].Count != 2 || !almostEqual(products[0].TotalRevenue, 150) {
		t.Fatalf("product sums: %+v", products[0])
	}

	months := MonthKeys(txs)
	if len(months) != 2 || months[0] != "2025-02" || months[1] != "2025-01" {
		t.Fatalf("month keys: %v", months)
	}
}

func TestTopRankingStableTies(t *testing.T) {
	txs := []Transaction{
		datedTx("2025-01-01", "first", 5, 10),
		datedTx("2025-01-02", "second", 5, 99),
		datedTx("2025-01-03", "third", 7, 1),
	}
	groups := GroupByProduct(txs)

	byQty := TopByQuantity(groups, 2)
	if len(byQty) != 2 {
		t.Fatalf("top n: got %d", len(byQty))
	}
	if byQty[0].Key != "third" {
		t.Fatalf("rank 1 by quantity: %v", byQty[0].Key)
	}
	// 5 vs 5: first-seen wins the earlier slot.
	if byQty[1].Key != "first" {
		t.Fatalf("tie break: %v", byQty[1].Key)
	}

	byRev := TopByRevenue(groups, 0)
	if byRev[0].Key != "second" || len(byRev) != 3 {
		t.Fatalf("by revenue: %+v", byRev)
	}
}

func TestFilterWithdrawalsByRange(t *testing.T) {
	ws := []WithdrawalEvent{
		{Amount: 1, Date: "2025-01-01"},
		{Amount: 2, Date: "2025-01-10"},
		{Amount: 3, Date: ""},
	}
	got := FilterWithdrawalsByRange(ws, "2025-01-05", "2025-01-31")
	if len(got) != 1 || got[0].Amount != 2 {
		t.Fatalf("got %+v", got)
	}
}
