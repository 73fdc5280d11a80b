package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/config"
	"agencydesk/services"
)

type paymentBody struct {
	Amount    *AmountValue `json:"amount"`
	PaidOn    *string      `json:"paid_on"`
	Method    *string      `json:"method"`
	Reference *string      `json:"reference"`
}

// HandlePaymentCreate handles POST /api/invoices/{id}/payments. Payments on
// draft or cancelled invoices are refused; overpayment is allowed and leaves
// a zero balance.
func HandlePaymentCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := services.LoadDocument(app, services.InvoiceKind, e.Request.PathValue("id"))
		if err != nil {
			return loadError(e, services.InvoiceKind, "payments: load invoice", err)
		}
		switch snap.Record.GetString("status") {
		case "draft", "":
			return jsonError(e, http.StatusConflict, "Send the invoice before recording payments")
		case "cancelled":
			return jsonError(e, http.StatusConflict, "Cancelled invoices cannot take payments")
		}

		var body paymentBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		var raw string
		if body.Amount != nil {
			raw = string(*body.Amount)
		}
		amount, err := services.ParseAmount("amount_paid", raw)
		if err != nil {
			return amountError(e, "payments", err)
		}
		amount = amount.Round(2)
		if !amount.IsPositive() {
			return amountError(e, "payments", &services.InvalidAmountError{Field: "amount_paid", Reason: "payment must be positive"})
		}

		errs := map[string]string{}
		paidOn := trimmed(body.PaidOn)
		if paidOn == "" {
			paidOn = now().Format(services.DateLayout)
		} else if _, err := time.Parse(services.DateLayout, paidOn); err != nil {
			errs["paid_on"] = "Date must be in " + services.DateLayout + " format"
		}
		method := trimmed(body.Method)
		if method != "" && !contains(services.PaymentMethods, method) {
			errs["method"] = "Unknown payment method"
		}
		if len(errs) > 0 {
			return fieldErrors(e, errs)
		}

		input := snap.Input
		input.AmountPaid = input.AmountPaid.Add(amount)
		if _, err := services.ComputeTotals(input); err != nil {
			return amountError(e, "payments", err)
		}

		col, err := app.FindCollectionByNameOrId("payments")
		if err != nil {
			log.Printf("payments: HandlePaymentCreate: could not find payments collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		rec.Set("invoice", snap.Record.Id)
		rec.Set("amount", amount.InexactFloat64())
		rec.Set("paid_on", paidOn)
		rec.Set("method", method)
		rec.Set("reference", trimmed(body.Reference))
		if err := app.Save(rec); err != nil {
			log.Printf("payments: HandlePaymentCreate: could not save payment: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, services.InvoiceKind, snap.Record.Id, http.StatusCreated)
	}
}

// HandlePaymentDelete handles DELETE /api/invoices/{id}/payments/{paymentId}.
func HandlePaymentDelete(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		invoiceID := e.Request.PathValue("id")
		rec, err := app.FindRecordById("payments", e.Request.PathValue("paymentId"))
		if err != nil || rec.GetString("invoice") != invoiceID {
			return jsonError(e, http.StatusNotFound, "Payment not found")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("payments: HandlePaymentDelete: could not delete %s: %v", rec.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, services.InvoiceKind, invoiceID, http.StatusOK)
	}
}
