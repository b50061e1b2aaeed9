package core

import (
	"errors"
	"testing"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"2025-01-01", true},
		{"2025-12-31", true},
		{"2025-13-01", false},
		{"2025-1-1", false},
		{"01-01-2025", false},
		{"", false},
	}
	for i, tc := range cases {
		err := ValidateDate(tc.s)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		BuyerUsername: "buyer01",
		Date:          "2025-01-01",
		Breakdown:     Breakdown{Quantity: 2},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(Transaction) Transaction
		want error
	}{
		{"empty buyer", func(tx Transaction) Transaction { tx.BuyerUsername = "  "; return tx }, ErrEmptyBuyer},
		{"missing date", func(tx Transaction) Transaction { tx.Date = ""; return tx }, ErrInvalidDate},
		{"zero quantity", func(tx Transaction) Transaction { tx.Quantity = 0; return tx }, ErrInvalidQuantity},
	}
	for _, tc := range cases {
		if err := tc.mut(good).Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestWithdrawalValidate(t *testing.T) {
	good := WithdrawalEvent{Amount: 100, Date: "2025-01-01", Type: WithdrawalCapital}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	untyped := WithdrawalEvent{Amount: 50, Date: "2025-01-02"}
	if err := untyped.Validate(); err != nil {
		t.Fatalf("untyped stream must validate, got %v", err)
	}

	bads := []WithdrawalEvent{
		{Amount: 0, Date: "2025-01-01"},
		{Amount: -5, Date: "2025-01-01"},
		{Amount: 10, Date: "bad"},
		{Amount: 10, Date: "2025-01-01", Type: "loan"},
	}
	for i, w := range bads {
		if err := w.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
