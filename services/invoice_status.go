package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of every document date field.
const DateLayout = "2006-01-02"

// PaymentStatus is the invoice state shown to users. Only draft, sent and
// cancelled are stored; everything else is derived from totals and dates.
type PaymentStatus string

const (
	StatusDraft         PaymentStatus = "draft"
	StatusCancelled     PaymentStatus = "cancelled"
	StatusPaid          PaymentStatus = "paid"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusOverdue       PaymentStatus = "overdue"
	StatusUnpaid        PaymentStatus = "unpaid"
)

// DerivePaymentStatus computes the displayed status of an invoice.
// An unparseable or empty due date never makes an invoice overdue.
func DerivePaymentStatus(stored string, totals DocumentTotals, amountPaid decimal.Decimal, dueDate string, now time.Time) PaymentStatus {
	switch stored {
	case string(StatusCancelled):
		return StatusCancelled
	case string(StatusDraft), "":
		return StatusDraft
	}

	if totals.BalanceDue.IsZero() {
		return StatusPaid
	}

	if due, err := time.Parse(DateLayout, dueDate); err == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if today.After(due) {
			return StatusOverdue
		}
	}

	if amountPaid.IsPositive() {
		return StatusPartiallyPaid
	}
	return StatusUnpaid
}

// DefaultDueDate returns issue date + days in DateLayout.
func DefaultDueDate(issue time.Time, days int) string {
	return issue.AddDate(0, 0, days).Format(DateLayout)
}
