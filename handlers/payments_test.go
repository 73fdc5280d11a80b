package handlers

import (
	"net/http"
	"testing"
	"time"

	"agencydesk/services"
	"agencydesk/testhelpers"
)

func TestHandlePaymentCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig(t)
	pinNow(t, time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))

	client := testhelpers.CreateTestClient(t, app, "Acme")
	draft := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	sent := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-002")
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", sent.Id, 1, "Retainer", 1, 1000)
	sent.Set("status", "sent")
	if err := app.Save(sent); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name            string
		invoiceID       string
		body            string
		wantStatus      int
		wantStatusValue string
		wantBalance     string
	}{
		{"draft invoice refused", draft.Id, `{"amount":100}`, http.StatusConflict, "", ""},
		{"zero amount", sent.Id, `{"amount":0}`, http.StatusUnprocessableEntity, "", ""},
		{"sub-paisa amount rounds to zero", sent.Id, `{"amount":"0.001"}`, http.StatusUnprocessableEntity, "", ""},
		{"missing amount", sent.Id, `{}`, http.StatusUnprocessableEntity, "", ""},
		{"bad date", sent.Id, `{"amount":10,"paid_on":"yesterday"}`, http.StatusBadRequest, "", ""},
		{"unknown method", sent.Id, `{"amount":10,"method":"barter"}`, http.StatusBadRequest, "", ""},
		{"partial payment", sent.Id, `{"amount":"400","method":"upi","reference":"UTR123"}`, http.StatusCreated, "partially_paid", "600.00"},
		{"overpayment clamps balance", sent.Id, `{"amount":"700.50"}`, http.StatusCreated, "paid", "0.00"},
		{"unknown invoice", "missing", `{"amount":1}`, http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(http.MethodPost, "/", tt.body, "id", tt.invoiceID)
			rec := serve(t, app, HandlePaymentCreate(app, cfg), req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var got DocumentJSON
			decodeJSON(t, rec, &got)
			if got.PaymentStatus != tt.wantStatusValue {
				t.Errorf("payment_status = %q, want %q", got.PaymentStatus, tt.wantStatusValue)
			}
			if got.Totals.BalanceDue.Value != tt.wantBalance {
				t.Errorf("balance_due = %s, want %s", got.Totals.BalanceDue.Value, tt.wantBalance)
			}
		})
	}

	payments, _ := services.FindPaymentRecords(app, sent.Id)
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].GetString("paid_on") != "2026-01-20" {
		t.Errorf("paid_on default = %q, want today", payments[0].GetString("paid_on"))
	}
}

func TestHandlePaymentCreate_StoresRoundedAmount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", inv.Id, 1, "Retainer", 1, 1000)
	inv.Set("status", "sent")
	if err := app.Save(inv); err != nil {
		t.Fatal(err)
	}

	rec := serve(t, app, HandlePaymentCreate(app, testConfig(t)), newJSONRequest(http.MethodPost, "/", `{"amount":"100.005"}`, "id", inv.Id))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got DocumentJSON
	decodeJSON(t, rec, &got)
	if got.AmountPaid.Value != "100.01" || got.Totals.BalanceDue.Value != "899.99" {
		t.Errorf("paid = %s balance = %s, want 100.01 and 899.99", got.AmountPaid.Value, got.Totals.BalanceDue.Value)
	}

	payments, err := services.FindPaymentRecords(app, inv.Id)
	if err != nil || len(payments) != 1 {
		t.Fatalf("FindPaymentRecords() = %d records, err %v", len(payments), err)
	}
	if stored := payments[0].GetFloat("amount"); stored != 100.01 {
		t.Errorf("stored amount = %v, want 100.01", stored)
	}
}

func TestHandlePaymentCreate_Cancelled(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	inv.Set("status", "cancelled")
	if err := app.Save(inv); err != nil {
		t.Fatal(err)
	}

	rec := serve(t, app, HandlePaymentCreate(app, testConfig(t)), newJSONRequest(http.MethodPost, "/", `{"amount":5}`, "id", inv.Id))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandlePaymentDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig(t)
	client := testhelpers.CreateTestClient(t, app, "Acme")
	inv := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-001")
	other := testhelpers.CreateTestInvoice(t, app, client.Id, "INV-25-26-002")
	testhelpers.CreateTestLineItem(t, app, "invoice_line_items", "invoice", inv.Id, 1, "Retainer", 1, 1000)
	payment := testhelpers.CreateTestPayment(t, app, inv.Id, 250)

	req := newJSONRequest(http.MethodDelete, "/", "", "id", other.Id, "paymentId", payment.Id)
	rec := serve(t, app, HandlePaymentDelete(app, cfg), req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when the payment belongs to another invoice, got %d", rec.Code)
	}

	req = newJSONRequest(http.MethodDelete, "/", "", "id", inv.Id, "paymentId", payment.Id)
	rec = serve(t, app, HandlePaymentDelete(app, cfg), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got DocumentJSON
	decodeJSON(t, rec, &got)
	if got.Totals.BalanceDue.Value != "1000.00" || got.AmountPaid.Value != "0.00" {
		t.Errorf("unexpected balance after delete: %+v paid %+v", got.Totals.BalanceDue, got.AmountPaid)
	}
}
