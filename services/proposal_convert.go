package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ErrProposalConverted is returned when a proposal already produced an invoice.
var ErrProposalConverted = errors.New("proposal already converted to an invoice")

// ConvertProposalToInvoice copies a proposal's client, rates, notes and line
// items into a new draft invoice and marks the proposal converted. The
// invoice is issued today and due paymentDays later. Everything happens in
// one transaction.
func ConvertProposalToInvoice(app core.App, proposalID string, now time.Time, paymentDays int) (*core.Record, error) {
	var invoice *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		proposal, err := txApp.FindRecordById(ProposalKind.Collection, proposalID)
		if err != nil {
			return fmt.Errorf("proposal not found: %w", err)
		}
		if proposal.GetString("status") == "converted" {
			return ErrProposalConverted
		}

		number, err := GenerateDocumentNumber(txApp, InvoiceKind, now)
		if err != nil {
			return err
		}

		invCol, err := txApp.FindCollectionByNameOrId(InvoiceKind.Collection)
		if err != nil {
			return fmt.Errorf("find invoices collection: %w", err)
		}

		invoice = core.NewRecord(invCol)
		invoice.Set("client", proposal.GetString("client"))
		invoice.Set("invoice_number", number)
		invoice.Set("issue_date", now.Format(DateLayout))
		invoice.Set("due_date", DefaultDueDate(now, paymentDays))
		invoice.Set("status", "draft")
		invoice.Set("discount", proposal.GetFloat("discount"))
		invoice.Set("discount_type", proposal.GetString("discount_type"))
		invoice.Set("tax_rate_percent", proposal.GetFloat("tax_rate_percent"))
		invoice.Set("notes", proposal.GetString("notes"))
		invoice.Set("proposal", proposal.Id)
		if err := txApp.Save(invoice); err != nil {
			return fmt.Errorf("save invoice: %w", err)
		}

		items, err := FindLineItemRecords(txApp, ProposalKind, proposal.Id)
		if err != nil {
			return err
		}
		itemCol, err := txApp.FindCollectionByNameOrId(InvoiceKind.LineItemCollection)
		if err != nil {
			return fmt.Errorf("find invoice line items collection: %w", err)
		}
		for _, src := range items {
			dst := core.NewRecord(itemCol)
			dst.Set("invoice", invoice.Id)
			dst.Set("sort_order", src.GetInt("sort_order"))
			dst.Set("description", src.GetString("description"))
			dst.Set("quantity", src.GetFloat("quantity"))
			dst.Set("unit_price", src.GetFloat("unit_price"))
			if err := txApp.Save(dst); err != nil {
				return fmt.Errorf("copy line item: %w", err)
			}
		}

		proposal.Set("status", "converted")
		if err := txApp.Save(proposal); err != nil {
			return fmt.Errorf("mark proposal converted: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
