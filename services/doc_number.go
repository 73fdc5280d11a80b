package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()

	startYear := year
	if t.Month() < time.April {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatDocumentNumber constructs the number string from its components.
func formatDocumentNumber(prefix, fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, fiscalYear, sequence)
}

// GenerateDocumentNumber creates the next number for a document kind.
// Format: {prefix}-{fiscal_year}-{sequence}, e.g. INV-25-26-007.
// The sequence restarts every fiscal year and continues after the highest
// number already issued, so deleting a document never reissues a number
// that is still in use.
func GenerateDocumentNumber(app core.App, kind DocumentKind, now time.Time) (string, error) {
	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("%s-%s-", kind.NumberPrefix, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		kind.Collection,
		kind.NumberField+" ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("generate %s number: %w", kind.Name, err)
	}

	highest := 0
	for _, rec := range existing {
		if seq := parseSequence(rec.GetString(kind.NumberField), prefix); seq > highest {
			highest = seq
		}
	}

	return formatDocumentNumber(kind.NumberPrefix, fiscalYear, highest+1), nil
}

// parseSequence extracts the trailing sequence from a number with the given
// prefix, or returns 0 when the number does not follow the format.
func parseSequence(number, prefix string) int {
	if !strings.HasPrefix(number, prefix) {
		return 0
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil {
		return 0
	}
	return seq
}
