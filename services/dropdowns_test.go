package services

import (
	"testing"
)

func TestTaxRateOptions(t *testing.T) {
	expected := []int{0, 5, 12, 18, 28}
	if len(TaxRateOptions) != len(expected) {
		t.Fatalf("expected %d tax rate options, got %d", len(expected), len(TaxRateOptions))
	}
	for i, v := range expected {
		if TaxRateOptions[i] != v {
			t.Errorf("TaxRateOptions[%d] = %d, want %d", i, TaxRateOptions[i], v)
		}
	}
}

func TestPaymentMethods(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range PaymentMethods {
		if m == "" {
			t.Error("PaymentMethods contains empty string")
		}
		if seen[m] {
			t.Errorf("duplicate payment method %q", m)
		}
		seen[m] = true
	}
	for _, want := range []string{"bank_transfer", "upi", "cash"} {
		if !seen[want] {
			t.Errorf("expected payment method %q", want)
		}
	}
}

func TestExpenseCategories(t *testing.T) {
	if len(ExpenseCategories) == 0 {
		t.Fatal("ExpenseCategories should not be empty")
	}
}
