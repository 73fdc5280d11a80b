package handlers

import (
	"net/http"
	"testing"
	"time"

	"agencydesk/testhelpers"
)

func TestHandleExpenseCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig(t)
	pinNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"description":"Figma seats","category":"software","amount":"4500.456"}`, http.StatusCreated},
		{"missing description", `{"amount":10}`, http.StatusBadRequest},
		{"zero amount", `{"description":"Nothing","amount":0}`, http.StatusUnprocessableEntity},
		{"bad date", `{"description":"Rent","amount":100,"spent_on":"March"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleExpenseCreate(app, cfg), newJSONRequest(http.MethodPost, "/", tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}

	records, _ := app.FindAllRecords("expenses")
	if len(records) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(records))
	}
	if records[0].GetFloat("amount") != 4500.46 || records[0].GetString("spent_on") != "2026-03-02" {
		t.Errorf("unexpected expense: amount %v spent_on %q", records[0].GetFloat("amount"), records[0].GetString("spent_on"))
	}
}

func TestHandleExpenseList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestExpense(t, app, "Hosting", 1200)
	testhelpers.CreateTestExpense(t, app, "Stock photos", 350.5)

	rec := serve(t, app, HandleExpenseList(app, testConfig(t)), newJSONRequest(http.MethodGet, "/", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Items []ExpenseJSON `json:"items"`
		Total Money         `json:"total"`
	}
	decodeJSON(t, rec, &got)
	if len(got.Items) != 2 {
		t.Errorf("expected 2 expenses, got %d", len(got.Items))
	}
	if got.Total.Value != "1550.50" || got.Total.Formatted != "₹1,550.50" {
		t.Errorf("total = %+v", got.Total)
	}
}
