package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

const (
	// PDFPrefix is ASCII-only; the PDF core fonts cannot draw "₹".
	PDFPrefix = "Rs. "
	// DisplayPrefix is used for HTML and JSON consumers.
	DisplayPrefix = "₹"
	// DefaultLocale is the locale used when none is configured.
	DefaultLocale = "en-IN"
)

// Formatter renders amounts as fixed 2-decimal, digit-grouped strings with
// a currency prefix. A Formatter is immutable and safe for concurrent use.
type Formatter struct {
	locale language.Tag
	prefix string
	indian bool
}

var defaultFormatter = MustFormatter(DefaultLocale, PDFPrefix)

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-IN".
// Locales in region IN use Indian grouping (1,23,45,678); every other
// region groups by thousands.
func NewFormatter(locale, prefix string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	region, _ := tag.Region()
	return &Formatter{
		locale: tag,
		prefix: prefix,
		indian: region.String() == "IN",
	}, nil
}

// MustFormatter is like NewFormatter but panics on an invalid locale.
func MustFormatter(locale, prefix string) *Formatter {
	f, err := NewFormatter(locale, prefix)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the configured locale tag.
func (f *Formatter) Locale() string {
	return f.locale.String()
}

// Format renders amount rounded half-up to 2 places, e.g. "Rs. 12,34,567.50".
// Negative amounts keep the sign in front of the prefix: "-Rs. 100.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	negative := amount.Round(2).IsNegative()
	raw := amount.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	var grouped string
	if f.indian {
		grouped = applyIndianGrouping(intPart)
	} else {
		grouped = applyThousandsGrouping(intPart)
	}

	result := f.prefix + grouped + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatINR formats an amount with the default en-IN formatter and the
// ASCII "Rs. " prefix.
func FormatINR(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

func applyThousandsGrouping(s string) string {
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
