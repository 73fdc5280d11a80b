package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// InvoiceFigures is the per-invoice input to the dashboard.
type InvoiceFigures struct {
	Status     PaymentStatus
	Totals     DocumentTotals
	AmountPaid decimal.Decimal
}

// ProposalFigures is the per-proposal input to the dashboard.
type ProposalFigures struct {
	Status string
	Total  decimal.Decimal
}

// DashboardSummary aggregates invoices, proposals and expenses.
type DashboardSummary struct {
	InvoiceCount     int
	DraftCount       int
	PaidCount        int
	OverdueCount     int
	OutstandingCount int

	TotalInvoiced    decimal.Decimal
	TotalCollected   decimal.Decimal
	TotalOutstanding decimal.Decimal
	OverdueAmount    decimal.Decimal

	ProposalCount    int
	AcceptedCount    int
	ProposalPipeline decimal.Decimal

	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// Summarize aggregates already-computed document figures. Drafts and
// cancelled invoices are counted but never contribute money; open
// proposals (draft or sent) make up the pipeline.
func Summarize(invoices []InvoiceFigures, proposals []ProposalFigures, expenses []decimal.Decimal) DashboardSummary {
	s := DashboardSummary{
		TotalInvoiced:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		OverdueAmount:    decimal.Zero,
		ProposalPipeline: decimal.Zero,
		TotalExpenses:    decimal.Zero,
	}

	for _, inv := range invoices {
		s.InvoiceCount++
		switch inv.Status {
		case StatusDraft:
			s.DraftCount++
			continue
		case StatusCancelled:
			continue
		case StatusPaid:
			s.PaidCount++
		case StatusOverdue:
			s.OverdueCount++
			s.OverdueAmount = s.OverdueAmount.Add(inv.Totals.BalanceDue)
		}

		s.TotalInvoiced = s.TotalInvoiced.Add(inv.Totals.TotalAmount)
		s.TotalCollected = s.TotalCollected.Add(inv.AmountPaid)
		if inv.Totals.BalanceDue.IsPositive() {
			s.OutstandingCount++
			s.TotalOutstanding = s.TotalOutstanding.Add(inv.Totals.BalanceDue)
		}
	}

	for _, p := range proposals {
		s.ProposalCount++
		switch p.Status {
		case "accepted", "converted":
			s.AcceptedCount++
		case "draft", "sent", "":
			s.ProposalPipeline = s.ProposalPipeline.Add(p.Total)
		}
	}

	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e)
	}
	s.NetIncome = s.TotalCollected.Sub(s.TotalExpenses)

	return s
}

// BuildDashboard loads every invoice, proposal and expense, recomputes
// document totals from their raw rows and summarizes them.
func BuildDashboard(app core.App, now time.Time) (DashboardSummary, error) {
	invoices, err := LoadAllDocuments(app, InvoiceKind)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}
	proposals, err := LoadAllDocuments(app, ProposalKind)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("dashboard: %w", err)
	}

	expenseRecords := []*core.Record{}
	if err := app.RecordQuery("expenses").All(&expenseRecords); err != nil {
		return DashboardSummary{}, fmt.Errorf("dashboard: list expenses: %w", err)
	}

	invoiceFigures := make([]InvoiceFigures, 0, len(invoices))
	for _, inv := range invoices {
		invoiceFigures = append(invoiceFigures, InvoiceFigures{
			Status:     inv.PaymentStatus(now),
			Totals:     inv.Totals,
			AmountPaid: inv.Input.AmountPaid,
		})
	}

	proposalFigures := make([]ProposalFigures, 0, len(proposals))
	for _, p := range proposals {
		proposalFigures = append(proposalFigures, ProposalFigures{
			Status: p.Record.GetString("status"),
			Total:  p.Totals.TotalAmount,
		})
	}

	expenses := make([]decimal.Decimal, 0, len(expenseRecords))
	for _, rec := range expenseRecords {
		expenses = append(expenses, decimal.NewFromFloat(rec.GetFloat("amount")))
	}

	return Summarize(invoiceFigures, proposalFigures, expenses), nil
}
