package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	mutedColor  = &props.Color{Red: 100, Green: 100, Blue: 100}
	darkColor   = &props.Color{Red: 33, Green: 37, Blue: 41}
	whiteColor  = &props.Color{Red: 255, Green: 255, Blue: 255}
	summaryFill = &props.Color{Red: 245, Green: 245, Blue: 245}
	altRowFill  = &props.Color{Red: 248, Green: 249, Blue: 250}
)

// GenerateDocumentPDF creates an A4 PDF for an invoice or proposal using
// maroto/v2. Amounts are rendered with f, which should carry an ASCII prefix
// since the core PDF fonts have no rupee glyph. A nil f uses FormatINR.
func GenerateDocumentPDF(data *DocumentExportData, f *Formatter) ([]byte, error) {
	if f == nil {
		f = defaultFormatter
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addDocumentHeader(m, data)
	addClientBlock(m, data)
	addLineItemsTable(m, data, f)
	addTotals(m, data, f)
	addAmountInWords(m, data)
	addNotes(m, "NOTES", data.Notes)
	addNotes(m, "TERMS & CONDITIONS", data.Terms)
	addSignature(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s PDF: %w", data.Kind.Name, err)
	}

	return doc.GetBytes(), nil
}

// addDocumentHeader adds the company block and the document title and number.
func addDocumentHeader(m core.Maroto, data *DocumentExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.Company.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(data.Kind.Title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: darkColor,
				}),
			),
		),
	)

	companyLine := joinNonEmpty([]string{data.Company.Address, data.Company.Email}, " | ")
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(companyLine, props.Text{
					Size:  8,
					Align: align.Left,
					Color: mutedColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("%s #: %s", titleCase(data.Kind.Name), data.Number), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	if data.Company.GSTIN != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(fmtField("GSTIN", data.Company.GSTIN), props.Text{
					Size:  8,
					Align: align.Left,
					Color: mutedColor,
				})),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addClientBlock adds client details on the left and dates on the right.
func addClientBlock(m core.Maroto, data *DocumentExportData) {
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: mutedColor}
	valueStyle := props.Text{Size: 8, Align: align.Left}
	rightLabelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: mutedColor}
	rightValueStyle := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("BILL TO", labelStyle)),
			col.New(6).Add(text.New("DETAILS", rightLabelStyle)),
		),
	)

	clientName := data.Client.Name
	if data.Client.Company != "" {
		clientName = joinNonEmpty([]string{data.Client.Company, data.Client.Name}, " / ")
	}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(clientName, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
			col.New(3).Add(text.New("Issue Date:", rightLabelStyle)),
			col.New(3).Add(text.New(data.IssueDate, rightValueStyle)),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(data.Client.Address, valueStyle)),
			col.New(3).Add(text.New(data.DateLabel+":", rightLabelStyle)),
			col.New(3).Add(text.New(data.SecondDate, rightValueStyle)),
		),
	)

	if data.Client.GSTIN != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(text.New(fmtField("GSTIN", data.Client.GSTIN), valueStyle)),
			),
		)
	}

	contact := joinNonEmpty([]string{data.Client.Phone, data.Client.Email}, " | ")
	if contact != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(text.New(fmtField("Contact", contact), valueStyle)),
			),
		)
	}

	if data.Title != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New(data.Title, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addLineItemsTable adds the line item table with alternating row fills.
func addLineItemsTable(m core.Maroto, data *DocumentExportData, f *Formatter) {
	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: whiteColor}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: darkColor}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("SI No", headerText)).WithStyle(headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Rate", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(headerCell),
		),
	)

	for i, item := range data.LineItems {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		cols := []core.Col{
			col.New(1).Add(text.New(fmt.Sprintf("%d", item.SINo), bodyText)),
			col.New(5).Add(text.New(item.Description, bodyTextLeft)),
			col.New(2).Add(text.New(item.Quantity.String(), bodyTextRight)),
			col.New(2).Add(text.New(f.Format(item.UnitPrice), bodyTextRight)),
			col.New(2).Add(text.New(f.Format(item.LineTotal), bodyTextRight)),
		}
		if i%2 == 1 {
			for j, c := range cols {
				cols[j] = c.WithStyle(&props.Cell{BackgroundColor: altRowFill})
			}
		}

		m.AddRows(row.New(7).Add(cols...))
	}

	m.AddRows(row.New(2))
}

// addTotals adds right-aligned total rows. Discount and tax rows are
// skipped when zero; balance rows only appear on invoices.
func addTotals(m core.Maroto, data *DocumentExportData, f *Formatter) {
	summaryCell := &props.Cell{BackgroundColor: summaryFill}
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}

	addLine := func(label string, amount decimal.Decimal) {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(f.Format(amount), valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	t := data.Totals
	addLine("Subtotal", t.Subtotal)
	if !t.DiscountAmount.IsZero() {
		addLine(data.DiscountLabel, t.DiscountAmount.Neg())
	}
	if !t.TaxAmount.IsZero() {
		addLine(data.TaxLabel, t.TaxAmount)
	}

	grandCell := &props.Cell{BackgroundColor: darkColor}
	grandStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: whiteColor}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Total", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(f.Format(t.TotalAmount), grandStyle)).WithStyle(grandCell),
		),
	)

	if data.IsInvoice() {
		addLine("Amount Paid", data.AmountPaid)
		addLine("Balance Due", t.BalanceDue)
	}

	m.AddRows(row.New(3))
}

// addAmountInWords adds the amount in words row.
func addAmountInWords(m core.Maroto, data *DocumentExportData) {
	if data.AmountInWords == "" {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Amount in Words: %s", data.AmountInWords), props.Text{
					Size:  8,
					Style: fontstyle.BoldItalic,
					Align: align.Left,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addNotes adds a labelled free-text section if body is non-empty.
func addNotes(m core.Maroto, label, body string) {
	if body == "" {
		return
	}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(label, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: mutedColor})),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(body, props.Text{Size: 8, Align: align.Left})),
		),
	)

	m.AddRows(row.New(3))
}

// addSignature adds the signature section at the bottom.
func addSignature(m core.Maroto, data *DocumentExportData) {
	m.AddRows(row.New(10))

	m.AddRows(
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New("____________________________", props.Text{Size: 8, Align: align.Center, Color: mutedColor})),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6),
			col.New(6).Add(text.New("Authorized Signatory / "+data.Company.Name, props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: mutedColor,
			})),
		),
	)
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
