package services

import (
	"testing"
)

func TestValidateGSTIN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty is valid", "", true},
		{"whitespace only is valid", "   ", true},
		{"valid GSTIN", "27AAPFU0939F1ZV", true},
		{"valid GSTIN lowercase auto-uppercased", "27aapfu0939f1zv", true},
		{"valid GSTIN with leading/trailing spaces", "  27AAPFU0939F1ZV  ", true},
		{"too short", "27AAPFU0939F1Z", false},
		{"too long", "27AAPFU0939F1ZVX", false},
		{"wrong structure - missing Z", "27AAPFU0939F1AV", false},
		{"first two not digits", "AAAAPFU0939F1ZV", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateGSTIN(tt.input)
			if got != tt.want {
				t.Errorf("ValidateGSTIN(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"9876543210", true},
		{"6000000000", true},
		{"5876543210", false},
		{"987654321", false},
		{"98765432100", false},
		{"98765abcde", false},
	}

	for _, tt := range tests {
		if got := ValidatePhone(tt.input); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"accounts@agencydesk.in", true},
		{"first.last+tag@example.co.uk", true},
		{"no-at-sign", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.input); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateClient(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidateClient(map[string]string{
			"name":   "Acme",
			"email":  "billing@acme.in",
			"phone":  "9876543210",
			"gstin":  "27AAPFU0939F1ZV",
			"status": "active",
		})
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("all invalid", func(t *testing.T) {
		errs := ValidateClient(map[string]string{
			"name":   "  ",
			"email":  "bad",
			"phone":  "123",
			"gstin":  "XYZ",
			"status": "vip",
		})
		for _, field := range []string{"name", "email", "phone", "gstin", "status"} {
			if errs[field] == "" {
				t.Errorf("expected error for %s", field)
			}
		}
	})
}
