package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/config"
	"agencydesk/services"
	"agencydesk/templates"
)

// HandleDocumentPDF returns a handler that generates and downloads a PDF
// for an invoice or proposal.
func HandleDocumentPDF(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		data, err := services.BuildDocumentExportData(app, kind, id, cfg.Company())
		if err != nil {
			return loadError(e, kind, "export: pdf "+kind.Name, err)
		}

		pdfBytes, err := services.GenerateDocumentPDF(data, cfg.PDFFormatter)
		if err != nil {
			log.Printf("export: failed to generate PDF: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("%s.pdf", sanitizeFilename(data.Number))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleDocumentPreview renders the HTML preview of an invoice or proposal.
func HandleDocumentPreview(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		data, err := services.BuildDocumentExportData(app, kind, id, cfg.Company())
		if err != nil {
			return loadError(e, kind, "export: preview "+kind.Name, err)
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.DocumentPreview(data, cfg.DisplayFormatter).Render(e.Request.Context(), e.Response)
	}
}

// HandleInvoiceRegister downloads every invoice with recomputed totals as
// an Excel workbook.
func HandleInvoiceRegister(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		today := now()
		rows, err := services.BuildInvoiceRegister(app, today)
		if err != nil {
			log.Printf("export: invoice register: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load invoices")
		}

		data, err := services.GenerateInvoiceRegister(rows)
		if err != nil {
			log.Printf("export: failed to generate Excel: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("invoice-register-%s.xlsx", today.Format(services.DateLayout))
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return e.Blob(http.StatusOK, xlsxContentType, data)
	}
}

// HandleProposalConvert handles POST /api/proposals/{id}/convert.
func HandleProposalConvert(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if _, err := app.FindRecordById(services.ProposalKind.Collection, id); err != nil {
			return jsonError(e, http.StatusNotFound, "Proposal not found")
		}

		invoice, err := services.ConvertProposalToInvoice(app, id, now(), cfg.DefaultPaymentDays)
		if errors.Is(err, services.ErrProposalConverted) {
			return jsonError(e, http.StatusConflict, "Proposal has already been converted")
		}
		if err != nil {
			log.Printf("export: convert proposal %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, services.InvoiceKind, invoice.Id, http.StatusCreated)
	}
}

// HandleOptions returns the values used to populate editor dropdowns.
func HandleOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"tax_rates":          services.TaxRateOptions,
			"discount_types":     []services.DiscountType{services.DiscountFixed, services.DiscountPercentage},
			"payment_methods":    services.PaymentMethods,
			"expense_categories": services.ExpenseCategories,
			"client_statuses":    services.ClientStatuses,
		})
	}
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}
