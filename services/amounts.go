// Package services holds the finance core (totals, words, currency formatting)
// and the record loaders and exporters built on top of it.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType selects how MonetaryDocument.Discount is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidAmount is matched by every *InvalidAmountError via errors.Is.
var ErrInvalidAmount = errors.New("invalid amount")

// InvalidAmountError names the input that violated its constraint.
// Line is 1-based for line item fields and 0 for document-level fields.
type InvalidAmountError struct {
	Line   int
	Field  string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid line item %d: %s %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// LineItem is a single billable row.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// LineTotal returns quantity × unit price rounded half-up to 2 places.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Round(2)
}

// AmountInput is the raw, stored shape shared by invoices and proposals.
// AmountPaid is always zero for proposals.
type AmountInput struct {
	LineItems      []LineItem
	Discount       decimal.Decimal
	DiscountType   DiscountType
	TaxRatePercent decimal.Decimal
	AmountPaid     decimal.Decimal
}

// DocumentTotals holds every derived monetary field of a document.
type DocumentTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableBase    decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	BalanceDue     decimal.Decimal
}

// ComputeTotals derives subtotal, discount, tax, total and balance due from
// the raw document inputs. Each derived field is rounded half-up to 2 places
// exactly once. Either every field is returned or an *InvalidAmountError is.
func ComputeTotals(in AmountInput) (DocumentTotals, error) {
	if err := validateAmountInput(in); err != nil {
		return DocumentTotals{}, err
	}

	raw := decimal.Zero
	for _, item := range in.LineItems {
		raw = raw.Add(item.Quantity.Mul(item.UnitPrice))
	}
	subtotal := raw.Round(2)

	var discountAmount decimal.Decimal
	if in.DiscountType == DiscountPercentage {
		discountAmount = subtotal.Mul(in.Discount).Div(hundred).Round(2)
	} else {
		discountAmount = in.Discount.Round(2)
	}
	discountAmount = clamp(discountAmount, decimal.Zero, subtotal)

	taxableBase := subtotal.Sub(discountAmount)
	taxAmount := taxableBase.Mul(in.TaxRatePercent).Div(hundred).Round(2)
	total := taxableBase.Add(taxAmount)

	balance := total.Sub(in.AmountPaid.Round(2))
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return DocumentTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		TaxAmount:      taxAmount,
		TotalAmount:    total,
		BalanceDue:     balance,
	}, nil
}

func validateAmountInput(in AmountInput) error {
	for i, item := range in.LineItems {
		if !item.Quantity.IsPositive() {
			return &InvalidAmountError{Line: i + 1, Field: "quantity", Reason: "must be positive"}
		}
		if item.UnitPrice.IsNegative() {
			return &InvalidAmountError{Line: i + 1, Field: "unit price", Reason: "must not be negative"}
		}
	}
	switch in.DiscountType {
	case DiscountPercentage, DiscountFixed, "":
	default:
		return &InvalidAmountError{Field: "discount_type", Reason: fmt.Sprintf("unknown type %q", in.DiscountType)}
	}
	if in.Discount.IsNegative() {
		return &InvalidAmountError{Field: "discount", Reason: "must not be negative"}
	}
	if in.TaxRatePercent.IsNegative() {
		return &InvalidAmountError{Field: "tax_rate_percent", Reason: "must not be negative"}
	}
	if in.AmountPaid.IsNegative() {
		return &InvalidAmountError{Field: "amount_paid", Reason: "must not be negative"}
	}
	return nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// ParseAmount parses a user-supplied numeric string. Blank input is zero;
// anything non-numeric is reported as an *InvalidAmountError on field.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Field: field, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return d, nil
}

// ParseDiscountType maps stored or submitted values onto a DiscountType.
func ParseDiscountType(raw string) (DiscountType, error) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(raw))) {
	case DiscountPercentage:
		return DiscountPercentage, nil
	case DiscountFixed, "":
		return DiscountFixed, nil
	}
	return "", &InvalidAmountError{Field: "discount_type", Reason: fmt.Sprintf("unknown type %q", raw)}
}
