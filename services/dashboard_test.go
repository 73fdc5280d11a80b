package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"agencydesk/testhelpers"
)

func TestSummarize(t *testing.T) {
	invoices := []InvoiceFigures{
		{Status: StatusDraft, Totals: DocumentTotals{TotalAmount: dec("999"), BalanceDue: dec("999")}},
		{Status: StatusCancelled, Totals: DocumentTotals{TotalAmount: dec("500"), BalanceDue: dec("500")}},
		{Status: StatusPaid, Totals: DocumentTotals{TotalAmount: dec("1180"), BalanceDue: decimal.Zero}, AmountPaid: dec("1180")},
		{Status: StatusPartiallyPaid, Totals: DocumentTotals{TotalAmount: dec("2000"), BalanceDue: dec("1500")}, AmountPaid: dec("500")},
		{Status: StatusOverdue, Totals: DocumentTotals{TotalAmount: dec("300.50"), BalanceDue: dec("300.50")}},
	}
	proposals := []ProposalFigures{
		{Status: "draft", Total: dec("1000")},
		{Status: "sent", Total: dec("250.25")},
		{Status: "accepted", Total: dec("4000")},
		{Status: "converted", Total: dec("100")},
		{Status: "rejected", Total: dec("700")},
	}
	expenses := []decimal.Decimal{dec("200"), dec("80.50")}

	s := Summarize(invoices, proposals, expenses)

	if s.InvoiceCount != 5 || s.DraftCount != 1 || s.PaidCount != 1 || s.OverdueCount != 1 || s.OutstandingCount != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	assertAmount(t, "TotalInvoiced", s.TotalInvoiced, "3480.50")
	assertAmount(t, "TotalCollected", s.TotalCollected, "1680")
	assertAmount(t, "TotalOutstanding", s.TotalOutstanding, "1800.50")
	assertAmount(t, "OverdueAmount", s.OverdueAmount, "300.50")
	assertAmount(t, "TotalExpenses", s.TotalExpenses, "280.50")
	assertAmount(t, "NetIncome", s.NetIncome, "1399.50")

	if s.ProposalCount != 5 || s.AcceptedCount != 2 {
		t.Errorf("unexpected proposal counts: %+v", s)
	}
	assertAmount(t, "ProposalPipeline", s.ProposalPipeline, "1250.25")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s.InvoiceCount != 0 || !s.TotalInvoiced.IsZero() || !s.NetIncome.IsZero() {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestBuildDashboard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Dashboard Client")

	sent := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	sent.Set("status", "sent")
	sent.Set("due_date", "2026-01-01")
	testhelpers.SetDocumentRates(t, app, sent, 0, "fixed", 18)
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", sent.Id, 1, "Design", 2, 500)
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", sent.Id, 2, "Hosting", 1, 250.50)
	testhelpers.CreateTestPayment(t, app, sent.Id, 475.59)

	draft := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-002")
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", draft.Id, 1, "Draft work", 1, 10000)

	prop := testhelpers.CreateTestProposal(t, app, client.Id, "PRP-25-26-001")
	testhelpers.CreateTestLineItem(t, app, "proposal_line_items", "proposal", prop.Id, 1, "Retainer", 1, 5000)

	testhelpers.CreateTestExpense(t, app, "Figma seats", 1200)

	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	s, err := BuildDashboard(app, now)
	if err != nil {
		t.Fatalf("BuildDashboard() error = %v", err)
	}

	if s.InvoiceCount != 2 || s.DraftCount != 1 || s.OverdueCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	assertAmount(t, "TotalInvoiced", s.TotalInvoiced, "1475.59")
	assertAmount(t, "TotalCollected", s.TotalCollected, "475.59")
	assertAmount(t, "TotalOutstanding", s.TotalOutstanding, "1000")
	assertAmount(t, "OverdueAmount", s.OverdueAmount, "1000")
	assertAmount(t, "ProposalPipeline", s.ProposalPipeline, "5000")
	assertAmount(t, "TotalExpenses", s.TotalExpenses, "1200")
	assertAmount(t, "NetIncome", s.NetIncome, "-724.41")
}
