package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"agencydesk/config"
	"agencydesk/services"
)

// proposalValidityDays is how long a new proposal stays open by default.
const proposalValidityDays = 30

// DocumentJSON is the response shape shared by invoices and proposals.
type DocumentJSON struct {
	ID             string         `json:"id"`
	Kind           string         `json:"kind"`
	Number         string         `json:"number"`
	Client         string         `json:"client"`
	ClientName     string         `json:"client_name"`
	Title          string         `json:"title,omitempty"`
	IssueDate      string         `json:"issue_date"`
	DueDate        string         `json:"due_date,omitempty"`
	ValidUntil     string         `json:"valid_until,omitempty"`
	Status         string         `json:"status"`
	PaymentStatus  string         `json:"payment_status,omitempty"`
	Discount       string         `json:"discount"`
	DiscountType   string         `json:"discount_type"`
	TaxRatePercent string         `json:"tax_rate_percent"`
	Notes          string         `json:"notes"`
	Terms          string         `json:"terms,omitempty"`
	Proposal       string         `json:"proposal,omitempty"`
	LineItems      []LineItemJSON `json:"line_items,omitempty"`
	Payments       []PaymentJSON  `json:"payments,omitempty"`
	AmountPaid     *Money         `json:"amount_paid,omitempty"`
	Totals         TotalsJSON     `json:"totals"`
	AmountInWords  string         `json:"amount_in_words"`
}

// LineItemJSON is one line item with its display total.
type LineItemJSON struct {
	ID          string `json:"id"`
	SortOrder   int    `json:"sort_order"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	LineTotal   Money  `json:"line_total"`
}

// PaymentJSON is one recorded payment.
type PaymentJSON struct {
	ID        string `json:"id"`
	Amount    Money  `json:"amount"`
	PaidOn    string `json:"paid_on"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// documentBody is the create/update payload. Nil fields are left unchanged.
type documentBody struct {
	Client         *string      `json:"client"`
	Title          *string      `json:"title"`
	IssueDate      *string      `json:"issue_date"`
	DueDate        *string      `json:"due_date"`
	ValidUntil     *string      `json:"valid_until"`
	Status         *string      `json:"status"`
	Discount       *AmountValue `json:"discount"`
	DiscountType   *string      `json:"discount_type"`
	TaxRatePercent *AmountValue `json:"tax_rate_percent"`
	Notes          *string      `json:"notes"`
	Terms          *string      `json:"terms"`
}

var editableStatuses = map[string][]string{
	services.InvoiceKind.Name:  {"draft", "sent", "cancelled"},
	services.ProposalKind.Name: {"draft", "sent", "accepted", "rejected"},
}

func lineItemJSON(f *services.Formatter, rec *core.Record) LineItemJSON {
	li := services.LineItemFromRecord(rec)
	return LineItemJSON{
		ID:          rec.Id,
		SortOrder:   rec.GetInt("sort_order"),
		Description: li.Description,
		Quantity:    li.Quantity.String(),
		UnitPrice:   money(f, li.UnitPrice),
		LineTotal:   money(f, li.LineTotal()),
	}
}

func documentJSON(app core.App, snap *services.DocumentSnapshot, f *services.Formatter, detailed bool) DocumentJSON {
	rec := snap.Record
	out := DocumentJSON{
		ID:             rec.Id,
		Kind:           snap.Kind.Name,
		Number:         rec.GetString(snap.Kind.NumberField),
		Client:         rec.GetString("client"),
		IssueDate:      rec.GetString("issue_date"),
		Status:         rec.GetString("status"),
		Discount:       snap.Input.Discount.String(),
		DiscountType:   string(snap.Input.DiscountType),
		TaxRatePercent: snap.Input.TaxRatePercent.String(),
		Notes:          rec.GetString("notes"),
		Totals:         totalsJSON(f, snap.Totals),
		AmountInWords:  services.AmountToWords(snap.Totals.TotalAmount),
	}

	if out.Client != "" {
		if c, err := app.FindRecordById("clients", out.Client); err == nil {
			out.ClientName = c.GetString("name")
		}
	}

	if snap.Kind.HasPayments {
		paid := money(f, snap.Input.AmountPaid)
		out.AmountPaid = &paid
		out.DueDate = rec.GetString("due_date")
		out.Terms = rec.GetString("terms")
		out.Proposal = rec.GetString("proposal")
		out.PaymentStatus = string(snap.PaymentStatus(now()))
	} else {
		out.Title = rec.GetString("title")
		out.ValidUntil = rec.GetString("valid_until")
	}

	if detailed {
		out.LineItems = make([]LineItemJSON, 0, len(snap.LineItems))
		for _, li := range snap.LineItems {
			out.LineItems = append(out.LineItems, lineItemJSON(f, li))
		}
		for _, p := range snap.Payments {
			out.Payments = append(out.Payments, PaymentJSON{
				ID:        p.Id,
				Amount:    money(f, decimal.NewFromFloat(p.GetFloat("amount"))),
				PaidOn:    p.GetString("paid_on"),
				Method:    p.GetString("method"),
				Reference: p.GetString("reference"),
			})
		}
	}

	return out
}

// HandleDocumentList handles GET /api/invoices and GET /api/proposals.
// Totals are recomputed from line items for every row.
func HandleDocumentList(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snaps, err := services.LoadAllDocuments(app, kind)
		if err != nil {
			log.Printf("documents: list %s failed: %v", kind.Collection, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items := make([]DocumentJSON, 0, len(snaps))
		for _, s := range snaps {
			items = append(items, documentJSON(app, s, cfg.DisplayFormatter, false))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleDocumentGet handles GET /api/{kind}s/{id}.
func HandleDocumentGet(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := services.LoadDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return loadError(e, kind, "documents: get "+kind.Name, err)
		}
		return e.JSON(http.StatusOK, documentJSON(app, snap, cfg.DisplayFormatter, true))
	}
}

// HandleDocumentCreate handles POST /api/invoices and POST /api/proposals.
// The number is generated from the current fiscal year.
func HandleDocumentCreate(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body documentBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if trimmed(body.Client) == "" {
			return fieldErrors(e, map[string]string{"client": "Client is required"})
		}

		col, err := app.FindCollectionByNameOrId(kind.Collection)
		if err != nil {
			log.Printf("documents: %s collection not found: %v", kind.Collection, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		today := now()
		rec := core.NewRecord(col)
		rec.Set("issue_date", today.Format(services.DateLayout))
		rec.Set("status", "draft")
		rec.Set("discount_type", string(services.DiscountFixed))
		if kind.HasPayments {
			rec.Set("due_date", services.DefaultDueDate(today, cfg.DefaultPaymentDays))
		} else {
			rec.Set("valid_until", services.DefaultDueDate(today, proposalValidityDays))
		}

		if errs, err := applyDocumentBody(app, kind, rec, &body, nil); len(errs) > 0 {
			return fieldErrors(e, errs)
		} else if err != nil {
			return amountError(e, "documents: create "+kind.Name, err)
		}

		number, err := services.GenerateDocumentNumber(app, kind, today)
		if err != nil {
			log.Printf("documents: generate %s number failed: %v", kind.Name, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		rec.Set(kind.NumberField, number)

		if err := app.Save(rec); err != nil {
			log.Printf("documents: save %s failed: %v", kind.Name, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		snap, err := services.LoadDocument(app, kind, rec.Id)
		if err != nil {
			return amountError(e, "documents: reload "+kind.Name, err)
		}
		return e.JSON(http.StatusCreated, documentJSON(app, snap, cfg.DisplayFormatter, true))
	}
}

// HandleDocumentUpdate handles POST /api/{kind}s/{id}. Rate changes are
// checked against the existing line items before anything is saved. An
// invoice with payments cannot go back to draft or be cancelled.
func HandleDocumentUpdate(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := services.LoadDocument(app, kind, e.Request.PathValue("id"))
		if err != nil {
			return loadError(e, kind, "documents: update "+kind.Name, err)
		}
		if snap.Record.GetString("status") == "converted" {
			return jsonError(e, http.StatusConflict, "Converted proposals cannot be edited")
		}

		var body documentBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(snap.Payments) > 0 {
			switch trimmed(body.Status) {
			case "draft", "cancelled":
				return jsonError(e, http.StatusConflict, "Invoices with recorded payments cannot be moved back to draft or cancelled")
			}
		}

		if errs, err := applyDocumentBody(app, kind, snap.Record, &body, snap); len(errs) > 0 {
			return fieldErrors(e, errs)
		} else if err != nil {
			return amountError(e, "documents: update "+kind.Name, err)
		}

		if err := app.Save(snap.Record); err != nil {
			log.Printf("documents: update %s %s failed: %v", kind.Name, snap.Record.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		updated, err := services.LoadDocument(app, kind, snap.Record.Id)
		if err != nil {
			return amountError(e, "documents: reload "+kind.Name, err)
		}
		return e.JSON(http.StatusOK, documentJSON(app, updated, cfg.DisplayFormatter, true))
	}
}

// HandleDocumentDelete handles DELETE /api/{kind}s/{id}. Invoices that are
// no longer drafts and have payments cannot be deleted.
func HandleDocumentDelete(app *pocketbase.PocketBase, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById(kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, titleName(kind)+" not found")
		}

		if kind.HasPayments {
			payments, err := services.FindPaymentRecords(app, rec.Id)
			if err == nil && len(payments) > 0 {
				return jsonError(e, http.StatusConflict, "Invoices with recorded payments cannot be deleted")
			}
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("documents: delete %s %s failed: %v", kind.Name, rec.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// applyDocumentBody validates body and copies it onto rec. Field errors are
// returned as a map; amount errors as an *InvalidAmountError. rec is only
// modified when both are empty. When snap is non-nil the new rates are
// checked against its line items.
func applyDocumentBody(app core.App, kind services.DocumentKind, rec *core.Record, body *documentBody, snap *services.DocumentSnapshot) (map[string]string, error) {
	errs := map[string]string{}

	if body.Client != nil {
		clientID := trimmed(body.Client)
		if _, err := app.FindRecordById("clients", clientID); err != nil {
			errs["client"] = "Client not found"
		}
	}

	dates := map[string]*string{"issue_date": body.IssueDate}
	if kind.HasPayments {
		dates["due_date"] = body.DueDate
	} else {
		dates["valid_until"] = body.ValidUntil
	}
	for field, v := range dates {
		if s := trimmed(v); s != "" {
			if _, err := time.Parse(services.DateLayout, s); err != nil {
				errs[field] = fmt.Sprintf("Date must be in %s format", services.DateLayout)
			}
		}
	}

	if body.Status != nil && !contains(editableStatuses[kind.Name], trimmed(body.Status)) {
		errs["status"] = "Invalid status"
	}

	if len(errs) > 0 {
		return errs, nil
	}

	input := services.AmountInput{
		Discount:       decimal.NewFromFloat(rec.GetFloat("discount")),
		TaxRatePercent: decimal.NewFromFloat(rec.GetFloat("tax_rate_percent")),
	}
	var err error
	if input.DiscountType, err = services.ParseDiscountType(rec.GetString("discount_type")); err != nil {
		input.DiscountType = services.DiscountFixed
	}
	if snap != nil {
		input.LineItems = snap.Input.LineItems
		input.AmountPaid = snap.Input.AmountPaid
	}

	if body.Discount != nil {
		if input.Discount, err = services.ParseAmount("discount", string(*body.Discount)); err != nil {
			return nil, err
		}
	}
	if body.DiscountType != nil {
		if input.DiscountType, err = services.ParseDiscountType(*body.DiscountType); err != nil {
			return nil, err
		}
	}
	if body.TaxRatePercent != nil {
		if input.TaxRatePercent, err = services.ParseAmount("tax_rate_percent", string(*body.TaxRatePercent)); err != nil {
			return nil, err
		}
	}
	if _, err := services.ComputeTotals(input); err != nil {
		return nil, err
	}

	rec.Set("discount", input.Discount.InexactFloat64())
	rec.Set("discount_type", string(input.DiscountType))
	rec.Set("tax_rate_percent", input.TaxRatePercent.InexactFloat64())

	setString := func(field string, v *string) {
		if v != nil {
			rec.Set(field, trimmed(v))
		}
	}
	setString("client", body.Client)
	setString("issue_date", body.IssueDate)
	setString("status", body.Status)
	setString("notes", body.Notes)
	if kind.HasPayments {
		setString("due_date", body.DueDate)
		setString("terms", body.Terms)
	} else {
		setString("valid_until", body.ValidUntil)
		setString("title", body.Title)
	}
	return nil, nil
}

func titleName(kind services.DocumentKind) string {
	if kind.HasPayments {
		return "Invoice"
	}
	return "Proposal"
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
