package services

import (
	"testing"

	"agencydesk/testhelpers"
)

func TestLoadDocument_InvoiceTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme Media")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	testhelpers.SetDocumentRates(t, app, inv, 0, "fixed", 18)
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", inv.Id, 2, "Hosting", 1, 250.50)
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", inv.Id, 1, "Design", 2, 500)
	testhelpers.CreateTestPayment(t, app, inv.Id, 475.59)

	snap, err := LoadDocument(app, InvoiceKind, inv.Id)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	if len(snap.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(snap.LineItems))
	}
	if got := snap.LineItems[0].GetString("description"); got != "Design" {
		t.Errorf("first line item = %q, want Design (sort order)", got)
	}
	assertAmount(t, "Subtotal", snap.Totals.Subtotal, "1250.50")
	assertAmount(t, "TaxAmount", snap.Totals.TaxAmount, "225.09")
	assertAmount(t, "TotalAmount", snap.Totals.TotalAmount, "1475.59")
	assertAmount(t, "AmountPaid", snap.Input.AmountPaid, "475.59")
	assertAmount(t, "BalanceDue", snap.Totals.BalanceDue, "1000")
}

func TestLoadDocument_ProposalIgnoresPayments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Proposal Client")
	prop := testhelpers.CreateTestProposal(t, app, client.Id, "PRP-25-26-001")
	testhelpers.SetDocumentRates(t, app, prop, 10, "percentage", 18)
	testhelpers.CreateTestLineItem(t, app, "proposal_line_items", "proposal", prop.Id, 1, "Retainer", 4, 250)

	snap, err := LoadDocument(app, ProposalKind, prop.Id)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if snap.Payments != nil {
		t.Errorf("proposals must not load payments")
	}
	assertAmount(t, "DiscountAmount", snap.Totals.DiscountAmount, "100")
	assertAmount(t, "TotalAmount", snap.Totals.TotalAmount, "1062")
	assertAmount(t, "BalanceDue", snap.Totals.BalanceDue, "1062")
}

func TestLoadDocument_EmptyDraft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Draft Client")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")

	snap, err := LoadDocument(app, InvoiceKind, inv.Id)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if !snap.Totals.TotalAmount.IsZero() || !snap.Totals.BalanceDue.IsZero() {
		t.Errorf("expected zero totals for empty draft, got %+v", snap.Totals)
	}
}

func TestLoadDocument_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := LoadDocument(app, InvoiceKind, "missing"); err == nil {
		t.Error("expected error for missing invoice")
	}
}

func TestLoadAllDocuments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "List Client")
	a := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	b := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-002")
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", a.Id, 1, "A", 1, 100)
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", b.Id, 1, "B", 2, 100)

	snaps, err := LoadAllDocuments(app, InvoiceKind)
	if err != nil {
		t.Fatalf("LoadAllDocuments() error = %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(snaps))
	}

	byNumber := map[string]string{}
	for _, s := range snaps {
		byNumber[s.Record.GetString("invoice_number")] = s.Totals.TotalAmount.StringFixed(2)
	}
	if byNumber["INV-25-26-001"] != "100.00" || byNumber["INV-25-26-002"] != "200.00" {
		t.Errorf("unexpected totals: %v", byNumber)
	}
}
