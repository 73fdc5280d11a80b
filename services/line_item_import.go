package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column in the line item import sheet.
type TemplateField struct {
	Key          string // internal name, matches PocketBase field name
	Label        string // human-readable header
	Description  string // shown on the Instructions sheet
	ExampleValue string
	Required     bool
}

// LineItemTemplateFields returns the ordered import columns.
func LineItemTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "description", Label: "Description", Description: "What is being billed", ExampleValue: "Website design", Required: true},
		{Key: "quantity", Label: "Quantity", Description: "Positive number, decimals allowed", ExampleValue: "2", Required: true},
		{Key: "unit_price", Label: "Unit Price", Description: "Price per unit before tax, commas allowed", ExampleValue: "12,500.00", Required: true},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded file.
// Items holds only rows without errors, in file order. UnknownColumns lists
// headers that were ignored.
type ImportResult struct {
	TotalRows      int               `json:"total_rows"`
	ValidRows      int               `json:"valid_rows"`
	ErrorRows      int               `json:"error_rows"`
	Errors         []ValidationError `json:"errors"`
	UnknownColumns []string          `json:"unknown_columns,omitempty"`
	Items          []LineItem        `json:"-"`
}

// ImportLineItems parses a .csv or .xlsx line item sheet and validates each
// row with the same rules ComputeTotals applies.
func ImportLineItems(file io.Reader, fileName string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := LineItemTemplateFields()
	columnKeys, unknown := mapHeadersToFields(headers, fields)
	if missing := missingRequiredColumns(columnKeys, fields); len(missing) > 0 {
		msg := "missing required column(s): " + strings.Join(missing, ", ")
		if len(unknown) > 0 {
			msg += "; unrecognized column(s): " + strings.Join(unknown, ", ")
		}
		return nil, errors.New(msg)
	}

	result := &ImportResult{UnknownColumns: unknown}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)

		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}

		if isBlankRow(rowData) {
			continue
		}
		result.TotalRows++

		item, rowErrors := validateImportRow(rowNum, rowData, fields)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}

	result.ValidRows = len(result.Items)
	return result, nil
}

func missingRequiredColumns(columnKeys []string, fields []TemplateField) []string {
	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		present[k] = true
	}
	var missing []string
	for _, f := range fields {
		if f.Required && !present[f.Key] {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

func isBlankRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

func validateImportRow(rowNum int, data map[string]string, fields []TemplateField) (LineItem, []ValidationError) {
	var errs []ValidationError

	for _, f := range fields {
		if f.Required && data[f.Key] == "" {
			errs = append(errs, ValidationError{Row: rowNum, Field: f.Label, Message: fmt.Sprintf("%s is required", f.Label)})
		}
	}
	if len(errs) > 0 {
		return LineItem{}, errs
	}

	qty, err := ParseAmount("quantity", data["quantity"])
	if err != nil {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Quantity", Message: err.Error()})
	} else if !qty.IsPositive() {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Quantity", Message: "Quantity must be positive"})
	}

	price, err := ParseAmount("unit price", data["unit_price"])
	if err != nil {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Unit Price", Message: err.Error()})
	} else if price.IsNegative() {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Unit Price", Message: "Unit Price must not be negative"})
	}

	return LineItem{Description: data["description"], Quantity: qty, UnitPrice: price}, errs
}

// SaveImportedLineItems appends items to a document after its existing
// line items. All rows are written in one transaction.
func SaveImportedLineItems(app core.App, kind DocumentKind, docID string, items []LineItem) error {
	return app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId(kind.LineItemCollection)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", kind.LineItemCollection, err)
		}

		next := NextSortOrder(txApp, kind, docID)
		for i, item := range items {
			rec := core.NewRecord(col)
			rec.Set(kind.RelationField, docID)
			rec.Set("sort_order", next+i)
			rec.Set("description", item.Description)
			rec.Set("quantity", item.Quantity.InexactFloat64())
			rec.Set("unit_price", item.UnitPrice.InexactFloat64())
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save imported line item %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	// Excel writes a UTF-8 byte order mark at the start of CSV exports.
	if len(allRows[0]) > 0 {
		allRows[0][0] = strings.TrimPrefix(allRows[0][0], "\ufeff")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// GenerateLineItemTemplate creates a downloadable .xlsx import template with
// a frozen header row and an Instructions sheet.
func GenerateLineItemTemplate() ([]byte, error) {
	fields := LineItemTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Line Items"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})

	for i, field := range fields {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		cell := colName + "1"
		header := field.Label
		if field.Required {
			header += " *"
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		f.SetColWidth(sheetName, colName, colName, 20)
	}
	f.SetColWidth(sheetName, "A", "A", 45)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	instSheet := "Instructions"
	f.NewSheet(instSheet)
	for i, h := range []string{"Field Name", "Required?", "Description", "Example"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(instSheet, cell, h)
	}
	for i, field := range fields {
		row := i + 2
		req := "Optional"
		if field.Required {
			req = "Required"
		}
		for c, v := range []string{field.Label, req, field.Description, field.ExampleValue} {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			f.SetCellValue(instSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
