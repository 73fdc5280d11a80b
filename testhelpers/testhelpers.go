// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestClient creates an active client record with the given name.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("company", name+" Pvt Ltd")
	record.Set("email", "billing@example.com")
	record.Set("phone", "9876543210")
	record.Set("gstin", "27AADCB2230M1ZV")
	record.Set("address", "12 MG Road, Bangalore, Karnataka 560001")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestInvoice creates a draft invoice with no discount and no tax.
func CreateTestInvoice(t *testing.T, app *pocketbase.PocketBase, clientID, number string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("invoices")
	if err != nil {
		t.Fatalf("failed to find invoices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("invoice_number", number)
	record.Set("issue_date", "2026-01-10")
	record.Set("due_date", "2026-01-25")
	record.Set("status", "draft")
	record.Set("discount_type", "fixed")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test invoice: %v", err)
	}

	return record
}

// CreateTestProposal creates a draft proposal with no discount and no tax.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, clientID, number string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("failed to find proposals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("proposal_number", number)
	record.Set("title", "Website redesign")
	record.Set("issue_date", "2026-01-05")
	record.Set("valid_until", "2026-02-05")
	record.Set("status", "draft")
	record.Set("discount_type", "fixed")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal: %v", err)
	}

	return record
}

// SetDocumentRates updates discount and tax configuration on an invoice or
// proposal record.
func SetDocumentRates(t *testing.T, app *pocketbase.PocketBase, record *core.Record, discount float64, discountType string, taxRate float64) {
	t.Helper()

	record.Set("discount", discount)
	record.Set("discount_type", discountType)
	record.Set("tax_rate_percent", taxRate)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to update document rates: %v", err)
	}
}

// CreateTestLineItem creates a line item on an invoice or proposal.
// collection is "invoice_line_items" or "proposal_line_items" and relation
// is the matching "invoice" or "proposal" field.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, collection, relation, docID string, sortOrder int, description string, quantity, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	record.Set(relation, docID)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("quantity", quantity)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// CreateTestPayment records a payment against an invoice.
func CreateTestPayment(t *testing.T, app *pocketbase.PocketBase, invoiceID string, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("payments")
	if err != nil {
		t.Fatalf("failed to find payments collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("invoice", invoiceID)
	record.Set("amount", amount)
	record.Set("paid_on", "2026-01-20")
	record.Set("method", "bank_transfer")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test payment: %v", err)
	}

	return record
}

// CreateTestExpense creates an expense record.
func CreateTestExpense(t *testing.T, app *pocketbase.PocketBase, description string, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		t.Fatalf("failed to find expenses collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("description", description)
	record.Set("category", "Software")
	record.Set("amount", amount)
	record.Set("spent_on", "2026-01-12")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test expense: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
