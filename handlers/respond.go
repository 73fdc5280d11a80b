package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"agencydesk/services"
)

// now is replaced in tests to pin derived statuses.
var now = time.Now

// Money is the JSON form of an amount: the fixed 2-decimal value plus the
// display string.
type Money struct {
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
}

func money(f *services.Formatter, d decimal.Decimal) Money {
	return Money{Value: d.StringFixed(2), Formatted: f.Format(d)}
}

// TotalsJSON mirrors services.DocumentTotals for responses.
type TotalsJSON struct {
	Subtotal       Money `json:"subtotal"`
	DiscountAmount Money `json:"discount_amount"`
	TaxableBase    Money `json:"taxable_base"`
	TaxAmount      Money `json:"tax_amount"`
	TotalAmount    Money `json:"total_amount"`
	BalanceDue     Money `json:"balance_due"`
}

func totalsJSON(f *services.Formatter, t services.DocumentTotals) TotalsJSON {
	return TotalsJSON{
		Subtotal:       money(f, t.Subtotal),
		DiscountAmount: money(f, t.DiscountAmount),
		TaxableBase:    money(f, t.TaxableBase),
		TaxAmount:      money(f, t.TaxAmount),
		TotalAmount:    money(f, t.TotalAmount),
		BalanceDue:     money(f, t.BalanceDue),
	}
}

// AmountValue accepts a JSON number or string and keeps the raw text so it
// can be parsed exactly with services.ParseAmount.
type AmountValue string

func (a *AmountValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountValue(s)
		return nil
	}
	*a = AmountValue(b)
	return nil
}

// jsonError writes {"error": message} with the given status.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// fieldErrors writes a 400 with per-field messages.
func fieldErrors(e *core.RequestEvent, errs map[string]string) error {
	return e.JSON(http.StatusBadRequest, map[string]any{
		"error":  "Please fix the highlighted fields",
		"fields": errs,
	})
}

// amountError maps an *InvalidAmountError to 422 naming the field. Any other
// error is logged under scope and reported as a generic 500.
func amountError(e *core.RequestEvent, scope string, err error) error {
	var invalid *services.InvalidAmountError
	if errors.As(err, &invalid) {
		return e.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": invalid.Error(),
			"field": invalid.Field,
		})
	}
	log.Printf("%s: %v", scope, err)
	return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// loadError writes the response for a failed LoadDocument: 404 when the
// record is missing, otherwise the amountError response.
func loadError(e *core.RequestEvent, kind services.DocumentKind, scope string, err error) error {
	if errors.Is(err, services.ErrDocumentNotFound) {
		return jsonError(e, http.StatusNotFound, titleName(kind)+" not found")
	}
	return amountError(e, scope, err)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
