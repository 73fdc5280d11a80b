package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"agencydesk/config"
	"agencydesk/services"
)

type totalsPreviewBody struct {
	LineItems []struct {
		Description string      `json:"description"`
		Quantity    AmountValue `json:"quantity"`
		UnitPrice   AmountValue `json:"unit_price"`
	} `json:"line_items"`
	Discount       AmountValue `json:"discount"`
	DiscountType   string      `json:"discount_type"`
	TaxRatePercent AmountValue `json:"tax_rate_percent"`
	AmountPaid     AmountValue `json:"amount_paid"`
}

// TotalsPreviewJSON is the response of POST /api/totals/preview.
type TotalsPreviewJSON struct {
	LineTotals    []Money    `json:"line_totals"`
	Totals        TotalsJSON `json:"totals"`
	AmountInWords string     `json:"amount_in_words"`
}

// HandleTotalsPreview handles POST /api/totals/preview: it runs the
// calculator on unsaved input so editors can show live totals.
func HandleTotalsPreview(cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body totalsPreviewBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		input, err := previewInput(&body)
		if err != nil {
			return amountError(e, "totals_preview", err)
		}
		totals, err := services.ComputeTotals(input)
		if err != nil {
			return amountError(e, "totals_preview", err)
		}

		f := cfg.DisplayFormatter
		lineTotals := make([]Money, 0, len(input.LineItems))
		for _, li := range input.LineItems {
			lineTotals = append(lineTotals, money(f, li.LineTotal()))
		}

		return e.JSON(http.StatusOK, TotalsPreviewJSON{
			LineTotals:    lineTotals,
			Totals:        totalsJSON(f, totals),
			AmountInWords: services.AmountToWords(totals.TotalAmount),
		})
	}
}

func previewInput(body *totalsPreviewBody) (services.AmountInput, error) {
	var in services.AmountInput
	var err error

	for i, raw := range body.LineItems {
		li := services.LineItem{Description: raw.Description}
		if li.Quantity, err = services.ParseAmount("quantity", string(raw.Quantity)); err != nil {
			return in, lineError(err, i+1)
		}
		if li.UnitPrice, err = services.ParseAmount("unit price", string(raw.UnitPrice)); err != nil {
			return in, lineError(err, i+1)
		}
		in.LineItems = append(in.LineItems, li)
	}

	if in.Discount, err = services.ParseAmount("discount", string(body.Discount)); err != nil {
		return in, err
	}
	if in.DiscountType, err = services.ParseDiscountType(body.DiscountType); err != nil {
		return in, err
	}
	if in.TaxRatePercent, err = services.ParseAmount("tax_rate_percent", string(body.TaxRatePercent)); err != nil {
		return in, err
	}
	if in.AmountPaid, err = services.ParseAmount("amount_paid", string(body.AmountPaid)); err != nil {
		return in, err
	}
	return in, nil
}

// lineError attaches a 1-based line number to a parse error.
func lineError(err error, line int) error {
	if invalid, ok := err.(*services.InvalidAmountError); ok {
		invalid.Line = line
	}
	return err
}
