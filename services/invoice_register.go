package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Invoices"

// RegisterRow is one invoice line in the invoice register workbook.
type RegisterRow struct {
	Number     string
	Client     string
	IssueDate  string
	DueDate    string
	Status     PaymentStatus
	Totals     DocumentTotals
	AmountPaid decimal.Decimal
}

// BuildInvoiceRegister loads every invoice with recomputed totals and its
// derived payment status as of now.
func BuildInvoiceRegister(app core.App, now time.Time) ([]RegisterRow, error) {
	snaps, err := LoadAllDocuments(app, InvoiceKind)
	if err != nil {
		return nil, err
	}

	clientNames := map[string]string{}
	rows := make([]RegisterRow, 0, len(snaps))
	for _, s := range snaps {
		clientID := s.Record.GetString("client")
		name, ok := clientNames[clientID]
		if !ok && clientID != "" {
			if c, err := app.FindRecordById("clients", clientID); err == nil {
				name = c.GetString("name")
			}
			clientNames[clientID] = name
		}

		rows = append(rows, RegisterRow{
			Number:     s.Record.GetString("invoice_number"),
			Client:     name,
			IssueDate:  s.Record.GetString("issue_date"),
			DueDate:    s.Record.GetString("due_date"),
			Status:     s.PaymentStatus(now),
			Totals:     s.Totals,
			AmountPaid: s.Input.AmountPaid,
		})
	}
	return rows, nil
}

// GenerateInvoiceRegister writes the register rows to an Excel workbook and
// returns the file contents. Amount columns are numeric cells so the sheet
// can be summed; a totals row follows the data.
func GenerateInvoiceRegister(rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), registerSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headers := []string{"Invoice #", "Client", "Issue Date", "Due Date", "Status",
		"Subtotal", "Discount", "Tax", "Total", "Paid", "Balance Due"}
	widths := []float64{18, 30, 12, 12, 15, 14, 12, 12, 14, 14, 14}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))

	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(registerSheet, name, name, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	amountFmt := "#,##0.00"
	textStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &amountFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Border:       thinBorders(),
		CustomNumFmt: &amountFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(registerSheet, cell, h)
	}
	f.SetCellStyle(registerSheet, "A1", lastCol+"1", headerStyle)

	var sum DocumentTotals
	sumPaid := decimal.Zero

	row := 2
	for _, r := range rows {
		texts := []string{r.Number, r.Client, r.IssueDate, r.DueDate, string(r.Status)}
		amounts := []decimal.Decimal{
			r.Totals.Subtotal, r.Totals.DiscountAmount, r.Totals.TaxAmount,
			r.Totals.TotalAmount, r.AmountPaid, r.Totals.BalanceDue,
		}
		writeRegisterRow(f, row, texts, amounts)
		f.SetCellStyle(registerSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), textStyle)
		f.SetCellStyle(registerSheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%s%d", lastCol, row), amountStyle)

		sum.Subtotal = sum.Subtotal.Add(r.Totals.Subtotal)
		sum.DiscountAmount = sum.DiscountAmount.Add(r.Totals.DiscountAmount)
		sum.TaxAmount = sum.TaxAmount.Add(r.Totals.TaxAmount)
		sum.TotalAmount = sum.TotalAmount.Add(r.Totals.TotalAmount)
		sum.BalanceDue = sum.BalanceDue.Add(r.Totals.BalanceDue)
		sumPaid = sumPaid.Add(r.AmountPaid)
		row++
	}

	writeRegisterRow(f, row, []string{"Total", "", "", "", ""}, []decimal.Decimal{
		sum.Subtotal, sum.DiscountAmount, sum.TaxAmount, sum.TotalAmount, sumPaid, sum.BalanceDue,
	})
	f.SetCellStyle(registerSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRegisterRow(f *excelize.File, row int, texts []string, amounts []decimal.Decimal) {
	colIdx := 1
	for _, s := range texts {
		cell, _ := excelize.CoordinatesToCellName(colIdx, row)
		f.SetCellValue(registerSheet, cell, sanitizeExcelCell(s))
		colIdx++
	}
	for _, a := range amounts {
		cell, _ := excelize.CoordinatesToCellName(colIdx, row)
		f.SetCellValue(registerSheet, cell, a.Round(2).InexactFloat64())
		colIdx++
	}
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
