package handlers

import (
	"net/http"
	"testing"

	"agencydesk/testhelpers"
)

func TestHandleClientCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `{"name":" Acme Media ","email":"billing@acme.in","phone":"9876543210","gstin":"27aapfu0939f1zv"}`
	rec := serve(t, app, HandleClientCreate(app), newJSONRequest(http.MethodPost, "/api/clients", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got ClientJSON
	decodeJSON(t, rec, &got)
	if got.Name != "Acme Media" {
		t.Errorf("name = %q, want trimmed", got.Name)
	}
	if got.GSTIN != "27AAPFU0939F1ZV" {
		t.Errorf("gstin = %q, want upper-cased", got.GSTIN)
	}
	if got.Status != "active" {
		t.Errorf("status = %q, want default active", got.Status)
	}
	if _, err := app.FindRecordById("clients", got.ID); err != nil {
		t.Errorf("client not persisted: %v", err)
	}
}

func TestHandleClientCreate_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `{"name":"","email":"nope","phone":"12345"}`
	rec := serve(t, app, HandleClientCreate(app), newJSONRequest(http.MethodPost, "/api/clients", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var got struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, rec, &got)
	for _, f := range []string{"name", "email", "phone"} {
		if got.Fields[f] == "" {
			t.Errorf("expected field error for %s", f)
		}
	}

	records, _ := app.FindAllRecords("clients")
	if len(records) != 0 {
		t.Errorf("expected nothing saved, found %d clients", len(records))
	}
}

func TestHandleClientCreate_MalformedBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandleClientCreate(app), newJSONRequest(http.MethodPost, "/api/clients", `{"name":`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleClientListAndGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	b := testhelpers.CreateTestClient(t, app, "Beta")
	testhelpers.CreateTestClient(t, app, "Alpha")

	rec := serve(t, app, HandleClientList(app), newJSONRequest(http.MethodGet, "/api/clients", ""))
	var list struct {
		Items []ClientJSON `json:"items"`
	}
	decodeJSON(t, rec, &list)
	if len(list.Items) != 2 || list.Items[0].Name != "Alpha" {
		t.Errorf("expected 2 clients sorted by name, got %+v", list.Items)
	}

	rec = serve(t, app, HandleClientGet(app), newJSONRequest(http.MethodGet, "/api/clients/"+b.Id, "", "id", b.Id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, app, HandleClientGet(app), newJSONRequest(http.MethodGet, "/api/clients/missing", "", "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleClientUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")

	req := newJSONRequest(http.MethodPost, "/api/clients/"+client.Id, `{"status":"inactive"}`, "id", client.Id)
	rec := serve(t, app, HandleClientUpdate(app), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got ClientJSON
	decodeJSON(t, rec, &got)
	if got.Status != "inactive" || got.Name != "Acme" {
		t.Errorf("unexpected client after update: %+v", got)
	}

	req = newJSONRequest(http.MethodPost, "/api/clients/"+client.Id, `{"gstin":"bad"}`, "id", client.Id)
	rec = serve(t, app, HandleClientUpdate(app), req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid gstin, got %d", rec.Code)
	}
}

func TestHandleClientDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	used := testhelpers.CreateTestClient(t, app, "Used")
	testhelpers.CreateTestInvoice(t, app, used.Id, "INV-25-26-001")
	unused := testhelpers.CreateTestClient(t, app, "Unused")

	rec := serve(t, app, HandleClientDelete(app), newJSONRequest(http.MethodDelete, "/", "", "id", used.Id))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for referenced client, got %d", rec.Code)
	}

	rec = serve(t, app, HandleClientDelete(app), newJSONRequest(http.MethodDelete, "/", "", "id", unused.Id))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("clients", unused.Id); err == nil {
		t.Error("client should have been deleted")
	}
}
