package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	ProductUnit    ProductType = "unit"
	ProductPackage ProductType = "package"

	WithdrawalCapital WithdrawalType = "capital"
	WithdrawalProfit  WithdrawalType = "profit"

	// Each partner owns one withdrawal collection. Blue's is untyped;
	// Cempaka's rows carry a WithdrawalType.
	StreamBlue    Stream = "blue"
	StreamCempaka Stream = "cempaka"
)

type (
	ProductType    string
	WithdrawalType string
	Stream         string

	// Product is an immutable catalog entry. ID is the unique key; Code is a
	// human-readable label and may repeat across distinct products.
	Product struct {
		ID          string      `json:"id"`
		Code        string      `json:"code"`
		Name        string      `json:"name"`
		Type        ProductType `json:"type"`
		SellPrice   float64     `json:"sellPrice"`
		CostPrice   float64     `json:"costPrice"`
		PackageSize int         `json:"packageSize,omitempty"`
	}

	// Breakdown is the fully resolved money math for one sale line.
	// All fields derive from the product, the quantity and the configured
	// rates; nothing is rounded here.
	Breakdown struct {
		Quantity         float64 `json:"quantity"`
		ActualQuantity   float64 `json:"actualQuantity"`
		SellPrice        float64 `json:"sellPrice"`
		TotalSellPrice   float64 `json:"totalSellPrice"`
		ShopeeFeePercent float64 `json:"shopeeFeePercent"`
		ShopeeDiscount   float64 `json:"shopeeDiscount"`
		NetIncome        float64 `json:"netIncome"`
		CostPrice        float64 `json:"costPrice"`
		TotalCost        float64 `json:"totalCost"`
		Profit           float64 `json:"profit"`
		BluePack         float64 `json:"bluePack"`
		CempakaPack      float64 `json:"cempakaPack"`
	}

	// Transaction is one persisted sale line. Lines entered in the same
	// submission share a GroupID. Records are immutable once stored and are
	// only ever deleted, never updated.
	Transaction struct {
		ID            int64  `json:"id"`
		GroupID       string `json:"groupId"`
		BuyerUsername string `json:"buyerUsername"`
		Date          string `json:"date"` // YYYY-MM-DD
		Notes         string `json:"notes,omitempty"`
		ProductID     string `json:"productId"`
		ProductCode   string `json:"productCode"`
		ProductName   string `json:"productName"`
		Breakdown
		Timestamp int64 `json:"timestamp"` // ms since epoch
	}

	// WithdrawalEvent is a capital repayment or profit payout. Blue's stream
	// carries no Type; Cempaka's stream is tagged capital or profit.
	WithdrawalEvent struct {
		ID        int64          `json:"id"`
		Amount    float64        `json:"amount"`
		Date      string         `json:"date"`
		Notes     string         `json:"notes,omitempty"`
		Type      WithdrawalType `json:"type,omitempty"`
		Timestamp int64          `json:"timestamp"`
	}
)

var (
	ErrEmptyBuyer            = errors.New("empty buyer username")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrUnknownProduct        = errors.New("unknown product")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidWithdrawalType = errors.New("invalid withdrawal type")
)

// Valid reports whether s names a known withdrawal stream.
func (s Stream) Valid() bool {
	return s == StreamBlue || s == StreamCempaka
}

// ValidateDate checks that s is a calendar date in ISO YYYY-MM-DD form.
// Dates stay strings end to end so range filters compare lexicographically.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return ErrUnknownProduct
	}
	switch p.Type {
	case ProductUnit:
	case ProductPackage:
		if p.PackageSize <= 0 {
			return ErrUnknownProduct
		}
	default:
		return ErrUnknownProduct
	}
	if p.SellPrice < 0 || p.CostPrice < 0 {
		return ErrUnknownProduct
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.BuyerUsername) == "" {
		return ErrEmptyBuyer
	}
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	if t.Quantity <= 0 || math.IsInf(t.Quantity, 0) || math.IsNaN(t.Quantity) {
		return ErrInvalidQuantity
	}
	return nil
}

func (w WithdrawalEvent) Validate() error {
	if w.Amount <= 0 || math.IsInf(w.Amount, 0) || math.IsNaN(w.Amount) {
		return ErrInvalidAmount
	}
	if err := ValidateDate(w.Date); err != nil {
		return err
	}
	switch w.Type {
	case "", WithdrawalCapital, WithdrawalProfit:
	default:
		return ErrInvalidWithdrawalType
	}
	return nil
}
