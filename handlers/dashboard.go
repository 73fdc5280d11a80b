package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/config"
	"agencydesk/services"
)

// DashboardJSON is the response of GET /api/dashboard.
type DashboardJSON struct {
	InvoiceCount     int   `json:"invoice_count"`
	DraftCount       int   `json:"draft_count"`
	PaidCount        int   `json:"paid_count"`
	OverdueCount     int   `json:"overdue_count"`
	OutstandingCount int   `json:"outstanding_count"`
	TotalInvoiced    Money `json:"total_invoiced"`
	TotalCollected   Money `json:"total_collected"`
	TotalOutstanding Money `json:"total_outstanding"`
	OverdueAmount    Money `json:"overdue_amount"`
	ProposalCount    int   `json:"proposal_count"`
	AcceptedCount    int   `json:"accepted_count"`
	ProposalPipeline Money `json:"proposal_pipeline"`
	TotalExpenses    Money `json:"total_expenses"`
	NetIncome        Money `json:"net_income"`
}

// HandleDashboard handles GET /api/dashboard. Every figure is recomputed
// from raw line items and payments.
func HandleDashboard(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := services.BuildDashboard(app, now())
		if err != nil {
			log.Printf("dashboard: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		f := cfg.DisplayFormatter
		return e.JSON(http.StatusOK, DashboardJSON{
			InvoiceCount:     s.InvoiceCount,
			DraftCount:       s.DraftCount,
			PaidCount:        s.PaidCount,
			OverdueCount:     s.OverdueCount,
			OutstandingCount: s.OutstandingCount,
			TotalInvoiced:    money(f, s.TotalInvoiced),
			TotalCollected:   money(f, s.TotalCollected),
			TotalOutstanding: money(f, s.TotalOutstanding),
			OverdueAmount:    money(f, s.OverdueAmount),
			ProposalCount:    s.ProposalCount,
			AcceptedCount:    s.AcceptedCount,
			ProposalPipeline: money(f, s.ProposalPipeline),
			TotalExpenses:    money(f, s.TotalExpenses),
			NetIncome:        money(f, s.NetIncome),
		})
	}
}
