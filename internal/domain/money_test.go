package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyFromDecimal_RoundTrip(t *testing.T) {
	values := []string{"0.01", "0.10", "1.00", "100.50", "999999999.99", "1234.56"}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			d, err := decimal.NewFromString(v)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}

			m, err := MoneyFromDecimal(d, "BRL")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := m.StringFixed(); got != v {
				t.Errorf("expected %s, got %s", v, got)
			}
		})
	}
}

func TestMoneyFromDecimal_Bounds(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{"minimum", "0.01", false},
		{"maximum", "999999999.99", false},
		{"below minimum", "0.001", true},
		{"zero", "0", true},
		{"above maximum", "1000000000.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.value)

			_, err := MoneyFromDecimal(d, "BRL")

			if tt.expectError && !errors.Is(err, ErrAmountOutOfRange) {
				t.Errorf("expected ErrAmountOutOfRange, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMoneyFromDecimal_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		value string
		cents int64
	}{
		{"0.015", 2},
		{"0.014", 1},
		{"1.005", 101},
		{"2.675", 268},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.value)

			m, err := MoneyFromDecimal(d, "BRL")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if m.Cents() != tt.cents {
				t.Errorf("expected %d cents, got %d", tt.cents, m.Cents())
			}
		})
	}
}

func TestMoneyAdd_NoFloatDrift(t *testing.T) {
	a, err := MoneyFromDecimal(decimal.NewFromFloat(0.1), "BRL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := MoneyFromDecimal(decimal.NewFromFloat(0.2), "BRL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.Cents() != 30 {
		t.Errorf("expected exactly 30 cents, got %d", sum.Cents())
	}

	if sum.StringFixed() != "0.30" {
		t.Errorf("expected 0.30, got %s", sum.StringFixed())
	}
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	brl, _ := NewMoney(100, "BRL")
	usd, _ := NewMoney(100, "USD")

	if _, err := brl.Add(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := brl.Sub(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Sub: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := brl.LessThan(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("LessThan: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := brl.GreaterThanOrEqual(usd); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("GreaterThanOrEqual: expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoneySub_NegativeResult(t *testing.T) {
	a, _ := NewMoney(100, "BRL")
	b, _ := NewMoney(200, "BRL")

	if _, err := a.Sub(b); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}

	got, err := b.Sub(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Cents() != 100 {
		t.Errorf("expected 100 cents, got %d", got.Cents())
	}
}

func TestMoneyMul(t *testing.T) {
	m, _ := NewMoney(150, "BRL")

	doubled, err := m.Mul(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doubled.Cents() != 300 {
		t.Errorf("expected 300 cents, got %d", doubled.Cents())
	}

	if _, err := m.Mul(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestNewMoney_Negative(t *testing.T) {
	if _, err := NewMoney(-1, "BRL"); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestNewMoney_DefaultCurrency(t *testing.T) {
	m, err := NewMoney(100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Currency() != DefaultCurrency {
		t.Errorf("expected %s, got %s", DefaultCurrency, m.Currency())
	}
}

func TestMoney_Comparisons(t *testing.T) {
	small, _ := NewMoney(100, "BRL")
	big, _ := NewMoney(200, "BRL")

	less, err := small.LessThan(big)
	if err != nil || !less {
		t.Errorf("expected 100 < 200, got less=%v err=%v", less, err)
	}

	gte, err := big.GreaterThanOrEqual(small)
	if err != nil || !gte {
		t.Errorf("expected 200 >= 100, got gte=%v err=%v", gte, err)
	}

	gte, err = small.GreaterThanOrEqual(small)
	if err != nil || !gte {
		t.Errorf("expected 100 >= 100, got gte=%v err=%v", gte, err)
	}

	if !small.Equal(small) || small.Equal(big) {
		t.Error("Equal comparison mismatch")
	}
}
