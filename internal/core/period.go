package core

import "sort"

// GroupSums carries the same rollup as BalanceSummary's transaction side,
// scoped to one report bucket.
type GroupSums struct {
	Key            string  `json:"key"` // date, month or product id
	Label          string  `json:"label,omitempty"`
	Count          int     `json:"count"`
	Quantity       float64 `json:"quantity"`
	ActualQuantity float64 `json:"actualQuantity"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalFee       float64 `json:"totalFee"`
	TotalNet       float64 `json:"totalNet"`
	TotalCost      float64 `json:"totalCost"`
	TotalProfit    float64 `json:"totalProfit"`
	TotalBlue      float64 `json:"totalBlue"`
	TotalCempaka   float64 `json:"totalCempaka"`
}

func (g *GroupSums) add(t Transaction) {
	g.Count++
	g.Quantity += t.Quantity
	g.ActualQuantity += t.ActualQuantity
	g.TotalRevenue += t.TotalSellPrice
	g.TotalFee += t.ShopeeDiscount
	g.TotalNet += t.NetIncome
	g.TotalCost += t.TotalCost
	g.TotalProfit += t.Profit
	g.TotalBlue += t.BluePack
	g.TotalCempaka += t.CempakaPack
}

// FilterByRange keeps transactions whose date falls inside the inclusive
// [start, end] bounds. Either bound may be empty for an open side.
// Comparison is lexicographic on the ISO date strings; a record without a
// date never matches a bounded query.
func FilterByRange(txs []Transaction, start, end string) []Transaction {
	if start == "" && end == "" {
		out := make([]Transaction, len(txs))
		copy(out, txs)
		return out
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date == "" {
			continue
		}
		if start != "" && t.Date < start {
			continue
		}
		if end != "" && t.Date > end {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterWithdrawalsByRange is FilterByRange for withdrawal streams.
func FilterWithdrawalsByRange(ws []WithdrawalEvent, start, end string) []WithdrawalEvent {
	if start == "" && end == "" {
		out := make([]WithdrawalEvent, len(ws))
		copy(out, ws)
		return out
	}
	out := make([]WithdrawalEvent, 0, len(ws))
	for _, w := range ws {
		if w.Date == "" {
			continue
		}
		if start != "" && w.Date < start {
			continue
		}
		if end != "" && w.Date > end {
			continue
		}
		out = append(out, w)
	}
	return out
}

// GroupByDay buckets transactions per calendar date, newest first.
func GroupByDay(txs []Transaction) []GroupSums {
	return groupBy(txs, func(t Transaction) (string, string) {
		return t.Date, ""
	}, true)
}

// GroupByProduct buckets transactions per product in first-seen order; the
// label carries the display code and name.
func GroupByProduct(txs []Transaction) []GroupSums {
	return groupBy(txs, func(t Transaction) (string, string) {
		return t.ProductID, t.ProductCode + " " + t.ProductName
	}, false)
}

// GroupByMonth buckets per YYYY-MM key, newest first.
func GroupByMonth(txs []Transaction) []GroupSums {
	return groupBy(txs, func(t Transaction) (string, string) {
		if len(t.Date) < 7 {
			return "", ""
		}
		return t.Date[:7], ""
	}, true)
}

// MonthKeys returns the distinct YYYY-MM keys present, newest first.
func MonthKeys(txs []Transaction) []string {
	groups := GroupByMonth(txs)
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

// groupBy accumulates per-key sums preserving first-seen order, then sorts
// descending by key when sortDesc is set (dates and months); product groups
// keep insertion order so ranking ties stay stable.
func groupBy(txs []Transaction, key func(Transaction) (string, string), sortDesc bool) []GroupSums {
	idx := make(map[string]int)
	var groups []GroupSums
	for _, t := range txs {
		k, label := key(t)
		if k == "" {
			continue
		}
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, GroupSums{Key: k, Label: label})
		}
		groups[i].add(t)
	}
	if sortDesc {
		sort.Slice(groups, func(i, j int) bool { return groups[i].Key > groups[j].Key })
	}
	return groups
}

// TopByQuantity ranks product groups by summed quantity, descending. The
// sort is stable: equal quantities keep first-seen order.
func TopByQuantity(groups []GroupSums, n int) []GroupSums {
	return top(groups, n, func(g GroupSums) float64 { return g.Quantity })
}

// TopByRevenue ranks product groups by summed revenue, descending.
func TopByRevenue(groups []GroupSums, n int) []GroupSums {
	return top(groups, n, func(g GroupSums) float64 { return g.TotalRevenue })
}

func top(groups []GroupSums, n int, field func(GroupSums) float64) []GroupSums {
	out := make([]GroupSums, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return field(out[i]) > field(out[j]) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
