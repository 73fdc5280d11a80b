package collections_test

import (
	"testing"

	"agencydesk/collections"
	"agencydesk/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"clients",
	"proposals",
	"invoices",
	"invoice_line_items",
	"proposal_line_items",
	"payments",
	"expenses",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_DocumentFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		collection string
		fields     []string
	}{
		{"invoices", []string{"client", "invoice_number", "issue_date", "due_date", "status", "discount", "discount_type", "tax_rate_percent", "notes", "terms", "proposal"}},
		{"proposals", []string{"client", "proposal_number", "title", "valid_until", "status", "discount", "discount_type", "tax_rate_percent"}},
		{"invoice_line_items", []string{"invoice", "sort_order", "description", "quantity", "unit_price"}},
		{"proposal_line_items", []string{"proposal", "sort_order", "description", "quantity", "unit_price"}},
		{"payments", []string{"invoice", "amount", "paid_on", "method", "reference"}},
	}

	for _, tt := range tests {
		col, err := app.FindCollectionByNameOrId(tt.collection)
		if err != nil {
			t.Fatalf("collection %q not found: %v", tt.collection, err)
		}
		for _, f := range tt.fields {
			if col.Fields.GetByName(f) == nil {
				t.Errorf("%s: missing field %q", tt.collection, f)
			}
		}
	}
}

func TestSetup_NoStoredTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range []string{"invoices", "proposals"} {
		col, _ := app.FindCollectionByNameOrId(name)
		for _, f := range []string{"subtotal", "tax_amount", "total_amount", "balance_due"} {
			if col.Fields.GetByName(f) != nil {
				t.Errorf("%s: derived field %q must not be stored", name, f)
			}
		}
	}
}
