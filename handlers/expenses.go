package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"agencydesk/config"
	"agencydesk/services"
)

// ExpenseJSON is the response shape of an expense record.
type ExpenseJSON struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      Money  `json:"amount"`
	SpentOn     string `json:"spent_on"`
}

type expenseBody struct {
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Amount      *AmountValue `json:"amount"`
	SpentOn     string       `json:"spent_on"`
}

func expenseJSON(f *services.Formatter, rec *core.Record) ExpenseJSON {
	return ExpenseJSON{
		ID:          rec.Id,
		Description: rec.GetString("description"),
		Category:    rec.GetString("category"),
		Amount:      money(f, decimal.NewFromFloat(rec.GetFloat("amount"))),
		SpentOn:     rec.GetString("spent_on"),
	}
}

// HandleExpenseList handles GET /api/expenses, newest first.
func HandleExpenseList(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records := []*core.Record{}
		if err := app.RecordQuery("expenses").OrderBy("spent_on DESC", "created DESC").All(&records); err != nil {
			log.Printf("expenses: list failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		total := decimal.Zero
		items := make([]ExpenseJSON, 0, len(records))
		for _, rec := range records {
			items = append(items, expenseJSON(cfg.DisplayFormatter, rec))
			total = total.Add(decimal.NewFromFloat(rec.GetFloat("amount")))
		}
		return e.JSON(http.StatusOK, map[string]any{
			"items": items,
			"total": money(cfg.DisplayFormatter, total),
		})
	}
}

// HandleExpenseCreate handles POST /api/expenses.
func HandleExpenseCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body expenseBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		var raw string
		if body.Amount != nil {
			raw = string(*body.Amount)
		}
		amount, err := services.ParseAmount("amount", raw)
		if err != nil {
			return amountError(e, "expenses", err)
		}
		if !amount.IsPositive() {
			return amountError(e, "expenses", &services.InvalidAmountError{Field: "amount", Reason: "must be positive"})
		}

		errs := map[string]string{}
		description := trimmed(&body.Description)
		if description == "" {
			errs["description"] = "Description is required"
		}
		spentOn := trimmed(&body.SpentOn)
		if spentOn == "" {
			spentOn = now().Format(services.DateLayout)
		} else if _, err := time.Parse(services.DateLayout, spentOn); err != nil {
			errs["spent_on"] = "Date must be in " + services.DateLayout + " format"
		}
		if len(errs) > 0 {
			return fieldErrors(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("expenses")
		if err != nil {
			log.Printf("expenses: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		rec.Set("description", description)
		rec.Set("category", trimmed(&body.Category))
		rec.Set("amount", amount.Round(2).InexactFloat64())
		rec.Set("spent_on", spentOn)
		if err := app.Save(rec); err != nil {
			log.Printf("expenses: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, expenseJSON(cfg.DisplayFormatter, rec))
	}
}
