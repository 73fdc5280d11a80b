package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/collections"
	"agencydesk/config"
	"agencydesk/handlers"
	"agencydesk/services"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Create collections, backfill and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateDocumentDefaults(app); err != nil {
			log.Printf("Warning: document defaults migration failed: %v", err)
		}
		if err := collections.MigrateConvertedProposals(app); err != nil {
			log.Printf("Warning: converted proposals migration failed: %v", err)
		}
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Clients ──────────────────────────────────────────────
		se.Router.GET("/api/clients", handlers.HandleClientList(app))
		se.Router.POST("/api/clients", handlers.HandleClientCreate(app))
		se.Router.GET("/api/clients/{id}", handlers.HandleClientGet(app))
		se.Router.POST("/api/clients/{id}", handlers.HandleClientUpdate(app))
		se.Router.DELETE("/api/clients/{id}", handlers.HandleClientDelete(app))

		// ── Live totals for unsaved editors ──────────────────────
		se.Router.POST("/api/totals/preview", handlers.HandleTotalsPreview(cfg))
		se.Router.GET("/api/options", handlers.HandleOptions())
		se.Router.GET("/api/line-items/template.xlsx", handlers.HandleLineItemTemplate())

		// ── Invoices and proposals share the document routes ─────
		for _, kind := range []services.DocumentKind{services.InvoiceKind, services.ProposalKind} {
			base := "/api/" + kind.Collection

			se.Router.GET(base, handlers.HandleDocumentList(app, cfg, kind))
			se.Router.POST(base, handlers.HandleDocumentCreate(app, cfg, kind))
			se.Router.GET(base+"/{id}", handlers.HandleDocumentGet(app, cfg, kind))
			se.Router.POST(base+"/{id}", handlers.HandleDocumentUpdate(app, cfg, kind))
			se.Router.DELETE(base+"/{id}", handlers.HandleDocumentDelete(app, kind))

			// Line items
			se.Router.POST(base+"/{id}/line-items", handlers.HandleLineItemAdd(app, cfg, kind))
			se.Router.POST(base+"/{id}/line-items/import", handlers.HandleLineItemImport(app, cfg, kind))
			se.Router.PATCH(base+"/{id}/line-items/{itemId}", handlers.HandleLineItemUpdate(app, cfg, kind))
			se.Router.DELETE(base+"/{id}/line-items/{itemId}", handlers.HandleLineItemDelete(app, cfg, kind))

			// Export
			se.Router.GET(base+"/{id}/pdf", handlers.HandleDocumentPDF(app, cfg, kind))
			se.Router.GET(base+"/{id}/preview", handlers.HandleDocumentPreview(app, cfg, kind))
		}

		// ── Invoice-only ─────────────────────────────────────────
		se.Router.POST("/api/invoices/{id}/payments", handlers.HandlePaymentCreate(app, cfg))
		se.Router.DELETE("/api/invoices/{id}/payments/{paymentId}", handlers.HandlePaymentDelete(app, cfg))
		se.Router.GET("/api/reports/invoices.xlsx", handlers.HandleInvoiceRegister(app))

		// ── Proposal-only ────────────────────────────────────────
		se.Router.POST("/api/proposals/{id}/convert", handlers.HandleProposalConvert(app, cfg))

		// ── Expenses and dashboard ───────────────────────────────
		se.Router.GET("/api/expenses", handlers.HandleExpenseList(app, cfg))
		se.Router.POST("/api/expenses", handlers.HandleExpenseCreate(app, cfg))
		se.Router.GET("/api/dashboard", handlers.HandleDashboard(app, cfg))

		// Redirect home to the dashboard
		se.Router.GET("/{$}", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/api/dashboard")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
