package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// DocumentKind describes where a monetary document type lives in storage.
// Invoices and proposals share the same totals pipeline.
type DocumentKind struct {
	Name               string
	Title              string
	Collection         string
	LineItemCollection string
	// RelationField is the line item field pointing at the document.
	RelationField string
	NumberField   string
	NumberPrefix  string
	HasPayments   bool
}

var (
	InvoiceKind = DocumentKind{
		Name:               "invoice",
		Title:              "INVOICE",
		Collection:         "invoices",
		LineItemCollection: "invoice_line_items",
		RelationField:      "invoice",
		NumberField:        "invoice_number",
		NumberPrefix:       "INV",
		HasPayments:        true,
	}
	ProposalKind = DocumentKind{
		Name:               "proposal",
		Title:              "PROPOSAL",
		Collection:         "proposals",
		LineItemCollection: "proposal_line_items",
		RelationField:      "proposal",
		NumberField:        "proposal_number",
		NumberPrefix:       "PRP",
	}
)

// FindLineItemRecords returns a document's line items in sort order.
func FindLineItemRecords(app core.App, kind DocumentKind, docID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		kind.LineItemCollection,
		kind.RelationField+" = {:docId}",
		"sort_order",
		0,
		0,
		map[string]any{"docId": docID},
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind.LineItemCollection, err)
	}
	return records, nil
}

// NextSortOrder returns the sort_order for a line item appended to docID.
func NextSortOrder(app core.App, kind DocumentKind, docID string) int {
	existing, err := app.FindRecordsByFilter(
		kind.LineItemCollection,
		kind.RelationField+" = {:docId}",
		"-sort_order",
		1,
		0,
		map[string]any{"docId": docID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// LineItemFromRecord converts a stored line item row.
func LineItemFromRecord(rec *core.Record) LineItem {
	return LineItem{
		Description: rec.GetString("description"),
		Quantity:    decimal.NewFromFloat(rec.GetFloat("quantity")),
		UnitPrice:   decimal.NewFromFloat(rec.GetFloat("unit_price")),
	}
}

// FindPaymentRecords returns the payments recorded against an invoice.
func FindPaymentRecords(app core.App, invoiceID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"payments",
		"invoice = {:invoiceId}",
		"created",
		0,
		0,
		map[string]any{"invoiceId": invoiceID},
	)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	return records, nil
}

// SumPayments adds up payment amounts.
func SumPayments(payments []*core.Record) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(decimal.NewFromFloat(p.GetFloat("amount")))
	}
	return total
}

// AmountInputFromRecords assembles the calculator input from stored rows.
func AmountInputFromRecords(doc *core.Record, items []*core.Record, amountPaid decimal.Decimal) (AmountInput, error) {
	discountType, err := ParseDiscountType(doc.GetString("discount_type"))
	if err != nil {
		return AmountInput{}, err
	}

	lineItems := make([]LineItem, 0, len(items))
	for _, rec := range items {
		lineItems = append(lineItems, LineItemFromRecord(rec))
	}

	return AmountInput{
		LineItems:      lineItems,
		Discount:       decimal.NewFromFloat(doc.GetFloat("discount")),
		DiscountType:   discountType,
		TaxRatePercent: decimal.NewFromFloat(doc.GetFloat("tax_rate_percent")),
		AmountPaid:     amountPaid,
	}, nil
}

// DocumentSnapshot is a document record together with everything needed to
// render it. Totals are recomputed from the raw rows on every load.
type DocumentSnapshot struct {
	Kind      DocumentKind
	Record    *core.Record
	LineItems []*core.Record
	Payments  []*core.Record
	Input     AmountInput
	Totals    DocumentTotals
}

// ErrDocumentNotFound is returned by LoadDocument when no record has the id.
var ErrDocumentNotFound = errors.New("document not found")

// LoadDocument reads a document, its line items and (for invoices) its
// payments, and computes totals.
func LoadDocument(app core.App, kind DocumentKind, id string) (*DocumentSnapshot, error) {
	doc, err := app.FindRecordById(kind.Collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", kind.Name, id, ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", kind.Name, id, err)
	}
	return loadDocumentRecord(app, kind, doc)
}

func loadDocumentRecord(app core.App, kind DocumentKind, doc *core.Record) (*DocumentSnapshot, error) {
	items, err := FindLineItemRecords(app, kind, doc.Id)
	if err != nil {
		return nil, err
	}

	var payments []*core.Record
	paid := decimal.Zero
	if kind.HasPayments {
		payments, err = FindPaymentRecords(app, doc.Id)
		if err != nil {
			return nil, err
		}
		paid = SumPayments(payments)
	}

	input, err := AmountInputFromRecords(doc, items, paid)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(input)
	if err != nil {
		return nil, err
	}

	return &DocumentSnapshot{
		Kind:      kind,
		Record:    doc,
		LineItems: items,
		Payments:  payments,
		Input:     input,
		Totals:    totals,
	}, nil
}

// LoadAllDocuments loads every document of a kind, newest first.
func LoadAllDocuments(app core.App, kind DocumentKind) ([]*DocumentSnapshot, error) {
	records := []*core.Record{}
	err := app.RecordQuery(kind.Collection).OrderBy("created DESC", "id DESC").All(&records)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection, err)
	}

	snapshots := make([]*DocumentSnapshot, 0, len(records))
	for _, rec := range records {
		snap, err := loadDocumentRecord(app, kind, rec)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind.Name, rec.Id, err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// PaymentStatus derives the invoice status as of now. Proposals report
// their stored status unchanged.
func (s *DocumentSnapshot) PaymentStatus(now time.Time) PaymentStatus {
	if !s.Kind.HasPayments {
		return PaymentStatus(s.Record.GetString("status"))
	}
	return DerivePaymentStatus(
		s.Record.GetString("status"),
		s.Totals,
		s.Input.AmountPaid,
		s.Record.GetString("due_date"),
		now,
	)
}
