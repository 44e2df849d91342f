package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"USD", USD(150000), 150000, "usd", "$1500.00"},
		{"EUR", EUR(99500), 99500, "eur", "€995.00"},
		{"GBP", GBP(9900), 9900, "gbp", "£99.00"},
		{"New", New(2500, "CAD"), 2500, "cad", "CAD 25.00"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := USD(100)
	b := USD(40)

	if got := a.Add(b); got.Amount != 140 {
		t.Errorf("Add: got %d, want 140", got.Amount)
	}
	if got := a.Subtract(b); got.Amount != 60 {
		t.Errorf("Subtract: got %d, want 60", got.Amount)
	}
	if got := a.Min(b); got.Amount != 40 {
		t.Errorf("Min: got %d, want 40", got.Amount)
	}
}

func TestMoneyPercent(t *testing.T) {
	tests := []struct {
		name    string
		base    int64
		percent int
		want    int64
	}{
		{"zero percent", 100, 0, 0},
		{"half", 100, 50, 50},
		{"full", 100, 100, 100},
		{"floor rounding", 99, 50, 49},
		{"thirty of unit", 100, 30, 30},
		{"odd base", 333, 10, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := USD(tt.base).Percent(tt.percent)
			if got.Amount != tt.want {
				t.Errorf("Percent(%d) of %d: got %d, want %d", tt.percent, tt.base, got.Amount, tt.want)
			}
		})
	}
}

func TestMoneyPercentMonotonic(t *testing.T) {
	// Fee after discount must be non-increasing as the percent grows.
	base := USD(99999)
	prev := base
	for p := 0; p <= 100; p++ {
		fee := base.Subtract(base.Percent(p))
		if fee.GreaterThan(prev) {
			t.Fatalf("fee increased at percent %d: %d > %d", p, fee.Amount, prev.Amount)
		}
		prev = fee
	}
}

func TestMoneyComparisons(t *testing.T) {
	if !USD(10).LessThan(USD(20)) {
		t.Error("LessThan: expected true")
	}
	if !USD(20).GreaterThan(USD(10)) {
		t.Error("GreaterThan: expected true")
	}
	if !USD(0).IsZero() {
		t.Error("IsZero: expected true")
	}
	if !USD(1).IsPositive() {
		t.Error("IsPositive: expected true")
	}
	if !USD(-1).IsNegative() {
		t.Error("IsNegative: expected true")
	}
	if !USD(5).Equal(USD(5)) {
		t.Error("Equal: expected true")
	}
	if USD(5).Equal(EUR(5)) {
		t.Error("Equal across currencies: expected false")
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on currency mismatch")
		}
	}()
	USD(1).Add(EUR(1))
}

func TestMoneyDecimalString(t *testing.T) {
	if got := USD(987654321).DecimalString(); got != "987654321" {
		t.Errorf("DecimalString: got %q", got)
	}

	m, err := ParseDecimal("150000", "usd")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if !m.Equal(USD(150000)) {
		t.Errorf("ParseDecimal: got %+v", m)
	}

	if _, err := ParseDecimal("12.5", "usd"); err == nil {
		t.Error("ParseDecimal: expected error for non-integer input")
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(USD(150000))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal wire: %v", err)
	}
	// Amount must be string-encoded on the wire.
	if wire["amount"] != "150000" {
		t.Errorf("wire amount: got %v, want \"150000\"", wire["amount"])
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(USD(150000)) {
		t.Errorf("roundtrip: got %+v", back)
	}
}

func TestSum(t *testing.T) {
	got := Sum(USD(10), USD(20), USD(30))
	if got.Amount != 60 {
		t.Errorf("Sum: got %d, want 60", got.Amount)
	}
	if !Sum().IsZero() {
		t.Error("empty Sum: expected zero")
	}
}
