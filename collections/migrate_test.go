package collections_test

import (
	"testing"

	"agencydesk/collections"
	"agencydesk/testhelpers"
)

func TestMigrateDocumentDefaults_Backfills(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	inv.Set("discount_type", "")
	inv.Set("status", "")
	if err := app.Save(inv); err != nil {
		t.Fatal(err)
	}
	p := testhelpers.CreateTestProposal(t, app, client.Id, "PRP-25-26-001")
	p.Set("discount_type", "percentage")
	p.Set("status", "")
	if err := app.Save(p); err != nil {
		t.Fatal(err)
	}

	if err := collections.MigrateDocumentDefaults(app); err != nil {
		t.Fatalf("MigrateDocumentDefaults() error: %v", err)
	}

	inv, _ = app.FindRecordById("invoices", inv.Id)
	if inv.GetString("discount_type") != "fixed" || inv.GetString("status") != "draft" {
		t.Errorf("invoice not backfilled: discount_type=%q status=%q", inv.GetString("discount_type"), inv.GetString("status"))
	}
	p, _ = app.FindRecordById("proposals", p.Id)
	if p.GetString("discount_type") != "percentage" {
		t.Errorf("existing discount_type overwritten: %q", p.GetString("discount_type"))
	}
	if p.GetString("status") != "draft" {
		t.Errorf("proposal status = %q, want draft", p.GetString("status"))
	}
}

func TestMigrateDocumentDefaults_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	inv.Set("status", "sent")
	if err := app.Save(inv); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := collections.MigrateDocumentDefaults(app); err != nil {
			t.Fatalf("run %d error: %v", i+1, err)
		}
	}

	inv, _ = app.FindRecordById("invoices", inv.Id)
	if inv.GetString("status") != "sent" {
		t.Errorf("status = %q, want sent to be kept", inv.GetString("status"))
	}
}

func TestMigrateConvertedProposals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	linked := testhelpers.CreateTestProposal(t, app, client.Id, "PRP-25-26-001")
	unlinked := testhelpers.CreateTestProposal(t, app, client.Id, "PRP-25-26-002")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	inv.Set("proposal", linked.Id)
	if err := app.Save(inv); err != nil {
		t.Fatal(err)
	}

	if err := collections.MigrateConvertedProposals(app); err != nil {
		t.Fatalf("MigrateConvertedProposals() error: %v", err)
	}

	linked, _ = app.FindRecordById("proposals", linked.Id)
	if linked.GetString("status") != "converted" {
		t.Errorf("linked proposal status = %q, want converted", linked.GetString("status"))
	}
	unlinked, _ = app.FindRecordById("proposals", unlinked.Id)
	if unlinked.GetString("status") != "draft" {
		t.Errorf("unlinked proposal status = %q, want draft", unlinked.GetString("status"))
	}
}
