package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// CompanyInfo is the issuing company block printed on every document.
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
	GSTIN   string
}

// DocumentExportData holds all data needed to render an invoice or proposal.
// Amounts are kept as decimals; each renderer formats them with its own
// Formatter.
type DocumentExportData struct {
	Kind    DocumentKind
	Company CompanyInfo

	Number     string
	Title      string
	IssueDate  string
	DateLabel  string // "Due Date" or "Valid Until"
	SecondDate string
	Status     string

	Client ExportClient

	LineItems []ExportLineItem

	Totals        DocumentTotals
	AmountPaid    decimal.Decimal
	DiscountLabel string
	TaxLabel      string
	AmountInWords string

	Notes string
	Terms string
}

// ExportClient holds client details for export.
type ExportClient struct {
	Name    string
	Company string
	Address string
	Email   string
	Phone   string
	GSTIN   string
}

// ExportLineItem holds a single numbered line for export.
type ExportLineItem struct {
	SINo        int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// IsInvoice reports whether balance and payment rows apply.
func (d *DocumentExportData) IsInvoice() bool {
	return d.Kind.HasPayments
}

// BuildDocumentExportData assembles everything a renderer needs from
// PocketBase records. Totals are recomputed from raw line items.
func BuildDocumentExportData(app core.App, kind DocumentKind, id string, company CompanyInfo) (*DocumentExportData, error) {
	snap, err := LoadDocument(app, kind, id)
	if err != nil {
		return nil, err
	}
	return ExportDataFromSnapshot(app, snap, company), nil
}

// ExportDataFromSnapshot converts a loaded document into export data.
// A missing client is logged and rendered as an empty block.
func ExportDataFromSnapshot(app core.App, snap *DocumentSnapshot, company CompanyInfo) *DocumentExportData {
	doc := snap.Record

	client := ExportClient{}
	if clientID := doc.GetString("client"); clientID != "" {
		c, err := app.FindRecordById("clients", clientID)
		if err != nil {
			log.Printf("document_export: could not find client %s: %v", clientID, err)
		} else {
			client = ExportClient{
				Name:    c.GetString("name"),
				Company: c.GetString("company"),
				Address: c.GetString("address"),
				Email:   c.GetString("email"),
				Phone:   c.GetString("phone"),
				GSTIN:   c.GetString("gstin"),
			}
		}
	}

	lineItems := make([]ExportLineItem, 0, len(snap.Input.LineItems))
	for i, li := range snap.Input.LineItems {
		lineItems = append(lineItems, ExportLineItem{
			SINo:        i + 1,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			LineTotal:   li.LineTotal(),
		})
	}

	data := &DocumentExportData{
		Kind:          snap.Kind,
		Company:       company,
		Number:        doc.GetString(snap.Kind.NumberField),
		IssueDate:     doc.GetString("issue_date"),
		Status:        doc.GetString("status"),
		Client:        client,
		LineItems:     lineItems,
		Totals:        snap.Totals,
		AmountPaid:    snap.Input.AmountPaid,
		DiscountLabel: discountLabel(snap.Input),
		TaxLabel:      fmt.Sprintf("Tax (%s%%)", snap.Input.TaxRatePercent.String()),
		AmountInWords: AmountToWords(snap.Totals.TotalAmount),
		Notes:         doc.GetString("notes"),
	}

	if snap.Kind.HasPayments {
		data.DateLabel = "Due Date"
		data.SecondDate = doc.GetString("due_date")
		data.Terms = doc.GetString("terms")
	} else {
		data.DateLabel = "Valid Until"
		data.SecondDate = doc.GetString("valid_until")
		data.Title = doc.GetString("title")
	}

	return data
}

func discountLabel(in AmountInput) string {
	if in.DiscountType == DiscountPercentage {
		return fmt.Sprintf("Discount (%s%%)", in.Discount.String())
	}
	return "Discount"
}
