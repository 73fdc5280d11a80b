package services

import "testing"

func TestFormatINR_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"zero", "0", "Rs. 0.00"},
		{"small integer", "5", "Rs. 5.00"},
		{"with decimals", "42.50", "Rs. 42.50"},
		{"hundreds", "999.99", "Rs. 999.99"},
		{"thousands", "1234.56", "Rs. 1,234.56"},
		{"ten thousands", "12345.00", "Rs. 12,345.00"},
		{"lakhs", "123456.78", "Rs. 1,23,456.78"},
		{"ten lakhs", "1234567.5", "Rs. 12,34,567.50"},
		{"crores", "12345678.90", "Rs. 1,23,45,678.90"},
		{"ten crores", "123456789.00", "Rs. 12,34,56,789.00"},
		{"rounds half up", "2.675", "Rs. 2.68"},
		{"rounds tiny amount up", "0.005", "Rs. 0.01"},
		{"negative small", "-100.00", "-Rs. 100.00"},
		{"negative lakhs", "-250000.50", "-Rs. 2,50,000.50"},
		{"negative rounding to zero", "-0.001", "Rs. 0.00"},
		{"exact lakh boundary", "100000", "Rs. 1,00,000.00"},
		{"exact crore boundary", "10000000", "Rs. 1,00,00,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(dec(tt.input))
			if got != tt.expect {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatter_Locales(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		prefix string
		input  string
		expect string
	}{
		{"display symbol", "en-IN", DisplayPrefix, "123456.78", "₹1,23,456.78"},
		{"hindi india", "hi-IN", DisplayPrefix, "1000000", "₹10,00,000.00"},
		{"us grouping", "en-US", "$", "1234567.5", "$1,234,567.50"},
		{"us six digits", "en-US", "$", "123456", "$123,456.00"},
		{"us small", "en-US", "$", "999", "$999.00"},
		{"bare language defaults to thousands", "en", "$", "1000", "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.locale, tt.prefix)
			if err != nil {
				t.Fatalf("NewFormatter(%q) error = %v", tt.locale, err)
			}
			if got := f.Format(dec(tt.input)); got != tt.expect {
				t.Errorf("Format(%s) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestNewFormatter_InvalidLocale(t *testing.T) {
	if _, err := NewFormatter("??", PDFPrefix); err == nil {
		t.Error("expected error for invalid locale")
	}
}

func TestApplyIndianGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"999", "999"},
		{"1234", "1,234"},
		{"123456", "1,23,456"},
		{"1234567", "12,34,567"},
		{"1234567890", "1,23,45,67,890"},
	}

	for _, tt := range tests {
		if got := applyIndianGrouping(tt.input); got != tt.expect {
			t.Errorf("applyIndianGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
