package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000
)

// AmountToWords converts an amount into Indian English words for the
// "amount in words" line.
// Example: 1475.59 → "One Thousand Four Hundred Seventy Five Rupees and Fifty Nine Paise Only"
func AmountToWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Negative " + AmountToWords(amount.Neg())
	}

	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(hundred).IntPart()

	words := integerToWords(rupees)
	if words == "" {
		words = "Zero"
	}
	result := words + " Rupees"

	if paise > 0 {
		result += " and " + groupToWords(paise) + " Paise"
	}
	return result + " Only"
}

// integerToWords renders n using the crore/lakh/thousand scale, most
// significant group first. Zero renders as "".
func integerToWords(n int64) string {
	var parts []string

	if n >= crore {
		// Beyond 999 crore the crore count itself needs scale words.
		parts = append(parts, integerToWords(n/crore)+" Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, groupToWords(n/lakh)+" Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, groupToWords(n/thousand)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, groupToWords(n))
	}

	return strings.Join(parts, " ")
}

// groupToWords renders 0 <= n < 1000. Zero is "" and only valid as a
// sub-component.
func groupToWords(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 != 0 {
			return tens[n/10] + " " + ones[n%10]
		}
		return tens[n/10]
	default:
		if n%100 != 0 {
			return ones[n/100] + " Hundred " + groupToWords(n%100)
		}
		return ones[n/100] + " Hundred"
	}
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
