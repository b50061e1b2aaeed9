// Package export serializes report data to delimited text for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"lapak/internal/core"
)

// TransactionHeaders is the column order for transaction exports.
var TransactionHeaders = []string{
	"id", "groupId", "date", "buyerUsername", "productCode", "productName",
	"quantity", "actualQuantity", "sellPrice", "totalSellPrice",
	"shopeeFeePercent", "shopeeDiscount", "netIncome", "costPrice",
	"totalCost", "profit", "bluePack", "cempakaPack", "notes",
}

// GroupHeaders is the column order for daily/product/month group exports.
var GroupHeaders = []string{
	"key", "label", "count", "quantity", "totalSellPrice", "shopeeDiscount",
	"netIncome", "totalCost", "profit", "bluePack", "cempakaPack",
}

// ToDelimitedText renders a header line plus one line per row. Fields
// containing the delimiter, quotes or newlines come out RFC 4180-quoted, so
// free-text notes cannot corrupt the table.
func ToDelimitedText(headers []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			return "", fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(headers))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// Filename names a report after the day it was generated.
func Filename(t time.Time) string {
	return "report-" + t.Format("2006-01-02") + ".csv"
}

// TransactionRows maps transactions onto TransactionHeaders columns.
func TransactionRows(txs []core.Transaction) [][]string {
	rows := make([][]string, len(txs))
	for i, t := range txs {
		rows[i] = []string{
			strconv.FormatInt(t.ID, 10),
			t.GroupID,
			t.Date,
			t.BuyerUsername,
			t.ProductCode,
			t.ProductName,
			num(t.Quantity),
			num(t.ActualQuantity),
			num(t.SellPrice),
			num(t.TotalSellPrice),
			num(t.ShopeeFeePercent),
			num(t.ShopeeDiscount),
			num(t.NetIncome),
			num(t.CostPrice),
			num(t.TotalCost),
			num(t.Profit),
			num(t.BluePack),
			num(t.CempakaPack),
			t.Notes,
		}
	}
	return rows
}

// GroupRows maps report buckets onto GroupHeaders columns.
func GroupRows(groups []core.GroupSums) [][]string {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{
			g.Key,
			g.Label,
			strconv.Itoa(g.Count),
			num(g.Quantity),
			num(g.TotalRevenue),
			num(g.TotalFee),
			num(g.TotalNet),
			num(g.TotalCost),
			num(g.TotalProfit),
			num(g.TotalBlue),
			num(g.TotalCempaka),
		}
	}
	return rows
}

// num formats amounts without exponent notation and without padding zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
