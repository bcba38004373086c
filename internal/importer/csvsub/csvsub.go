package csvsub

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/subslayer/subslayer/internal/encoding"
	"github.com/subslayer/subslayer/internal/subscription"
)

// Parser reads subscription CSV exports. The header row is located by its
// column names, so leading junk rows from spreadsheet tools are tolerated.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Recognized header names, lowercased. Several aliases per column because
// exports from different tools disagree.
var columnAliases = map[string]string{
	"name":          "name",
	"subscription":  "name",
	"cost":          "cost",
	"price":         "cost",
	"amount":        "cost",
	"currency":      "currency",
	"cycle":         "cycle",
	"billing cycle": "cycle",
	"next_billing":  "next_billing",
	"next billing":  "next_billing",
	"renewal date":  "next_billing",
	"category":      "category",
	"description":   "description",
}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

func (p *Parser) Parse(r io.Reader) ([]subscription.CreateParams, error) {
	utf8r, err := enc.UTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := detectHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no header row found: expected at least name, cost and next billing columns")
	}

	return parseRows(cols, rows[headerIdx+1:]), nil
}

// colIndex maps canonical column names to their index in the row.
type colIndex map[string]int

func detectHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if canonical, ok := columnAliases[name]; ok {
				cols[canonical] = i
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func hasRequired(cols colIndex) bool {
	for _, name := range []string{"name", "cost", "next_billing"} {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts subscriptions from data rows. Rows that fail to parse
// are skipped rather than failing the whole file: exports routinely carry
// footer and summary rows.
func parseRows(cols colIndex, rows [][]string) []subscription.CreateParams {
	var params []subscription.CreateParams

	for _, row := range rows {
		name := cellValue(row, cols, "name")
		if name == "" {
			continue
		}

		cost, err := decimal.NewFromString(cellValue(row, cols, "cost"))
		if err != nil || cost.IsNegative() {
			continue
		}

		next, ok := parseDate(cellValue(row, cols, "next_billing"))
		if !ok {
			continue
		}

		currency := strings.ToUpper(cellValue(row, cols, "currency"))
		if currency == "" {
			currency = "USD"
		}

		params = append(params, subscription.CreateParams{
			Name:        name,
			Description: cellValue(row, cols, "description"),
			Cost:        cost,
			Currency:    currency,
			Cycle:       parseCycle(cellValue(row, cols, "cycle")),
			NextBilling: next,
			Category:    cellValue(row, cols, "category"),
		})
	}

	return params
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseCycle(s string) subscription.BillingCycle {
	switch strings.ToLower(s) {
	case "annual", "yearly", "year":
		return subscription.CycleAnnual
	}

	return subscription.CycleMonthly
}

// cellValue safely gets a trimmed cell value for a canonical column name.
func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
