package services

import (
	"strconv"
	"strings"
	"time"

	"finanzas/internal/core"
)

// Field names used in normalization warnings.
const (
	FieldCategory = "category"
	FieldItem     = "item"
	FieldAmount   = "amount_ars"
	FieldDueDate  = "due_date"
	FieldPaid     = "paid"
)

// Warning reasons. Tests and callers can tell a defaulted field from a
// parsed one instead of conflating every failure into one fallback branch.
const (
	ReasonMissingColumn   = "missing-column"
	ReasonUnparsable      = "unparsable"
	ReasonUnknownCategory = "unknown-category"
	ReasonEmptyRow        = "empty-row"
)

type (
	// NormalizerConfig controls the tolerant parsing behavior.
	NormalizerConfig struct {
		YearRule  YearRule
		FixedYear int
	}

	// Normalizer converts raw store rows into typed expense records. It
	// never fails a whole load: malformed cells get documented defaults and
	// a Warning.
	Normalizer struct {
		years YearInferrer
	}

	// Warning records one fallback taken while normalizing. Row is the
	// zero-based index into the input sequence.
	Warning struct {
		Row    int    `json:"row"`
		Field  string `json:"field"`
		Reason string `json:"reason"`
	}

	// Report collects the fallbacks of one normalization pass.
	Report struct {
		Warnings []Warning
	}
)

// column identifies one canonical column during resolution.
type column int

const (
	colCategory column = iota
	colItem
	colAmount
	colPaid
	colDueDate
)

// columnSynonyms maps each canonical column to lowercase keywords searched
// for when the exact header is absent. Resolution order matters: colPaid
// runs before colDueDate so "Pagado" is not claimed by the "pago" keyword.
var columnSynonyms = map[column][]string{
	colCategory: {"category", "categor", "cat"},
	colItem:     {"item", "ítem", "desc", "concepto"},
	colAmount:   {"amountars", "amount", "ars", "monto"},
	colPaid:     {"paid", "done", "pagado"},
	colDueDate:  {"duedate", "date", "due", "venc", "pago", "fecha"},
}

var canonicalColumnNames = map[column]string{
	colCategory: "Category",
	colItem:     "Item",
	colAmount:   "AmountARS",
	colPaid:     "Paid",
	colDueDate:  "DueDate",
}

var resolutionOrder = []column{colCategory, colItem, colAmount, colPaid, colDueDate}

// paidTokens is the fixed truthy vocabulary, lowercase. Everything else is
// false.
var paidTokens = map[string]struct{}{
	"true":      {},
	"verdadero": {},
	"1":         {},
	"✓":         {},
	"✔":         {},
}

// NewNormalizer builds a normalizer. An invalid year rule falls back to
// nearest-future rather than failing construction.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	inferrer, err := YearInferrerFor(cfg.YearRule, cfg.FixedYear)
	if err != nil {
		inferrer = NearestFutureYear{}
	}
	return &Normalizer{years: inferrer}
}

// Normalize converts raw rows into expense records, preserving input order.
// today anchors year inference for day-month date tokens. Rows with no
// non-empty cell at all are dropped with a warning; everything else yields
// a record.
func (n *Normalizer) Normalize(rows []core.RawRow, today time.Time) ([]core.ExpenseRecord, Report) {
	records := make([]core.ExpenseRecord, 0, len(rows))
	var report Report

	for i, row := range rows {
		if isBlankRow(row) {
			report.warn(i, "", ReasonEmptyRow)
			continue
		}

		cells := resolveColumns(row)
		rec := core.ExpenseRecord{}

		if cell, ok := cells[colCategory]; ok {
			rec.Category = normalizeCategory(cell)
			if !rec.Category.IsCanonical() {
				report.warn(i, FieldCategory, ReasonUnknownCategory)
			}
		} else {
			report.warn(i, FieldCategory, ReasonMissingColumn)
		}

		if cell, ok := cells[colItem]; ok {
			rec.Item = strings.TrimSpace(cell)
		}

		if cell, ok := cells[colAmount]; ok {
			amount, parsed := core.ParseAmountToCents(cell)
			rec.Amount = amount
			if !parsed {
				report.warn(i, FieldAmount, ReasonUnparsable)
			}
		} else {
			report.warn(i, FieldAmount, ReasonMissingColumn)
		}

		if cell, ok := cells[colDueDate]; ok {
			due, parsed := n.parseDueDate(cell, today)
			rec.DueDate = due
			if !parsed && strings.TrimSpace(cell) != "" {
				report.warn(i, FieldDueDate, ReasonUnparsable)
			}
		} else {
			report.warn(i, FieldDueDate, ReasonMissingColumn)
		}

		if cell, ok := cells[colPaid]; ok {
			rec.Paid = parsePaid(cell)
		} else {
			// Older sheets have no Paid column at all; default false.
			report.warn(i, FieldPaid, ReasonMissingColumn)
		}

		records = append(records, rec)
	}

	return records, report
}

// resolveColumns maps each canonical column to the cell value of the best
// matching header: the exact canonical name first, then a keyword search
// over trimmed, lowercased headers. A header claimed by one column is not
// offered to the next.
func resolveColumns(row core.RawRow) map[column]string {
	used := make(map[string]bool, len(row))
	out := make(map[column]string, len(resolutionOrder))

	for _, col := range resolutionOrder {
		if key, ok := findHeader(row, col, used); ok {
			used[key] = true
			out[col] = row[key]
		}
	}
	return out
}

func findHeader(row core.RawRow, col column, used map[string]bool) (string, bool) {
	canonical := strings.ToLower(canonicalColumnNames[col])
	for key := range row {
		if used[key] {
			continue
		}
		if strings.ToLower(strings.TrimSpace(key)) == canonical {
			return key, true
		}
	}
	for _, keyword := range columnSynonyms[col] {
		for key := range row {
			if used[key] {
				continue
			}
			if strings.Contains(strings.ToLower(strings.TrimSpace(key)), keyword) {
				return key, true
			}
		}
	}
	return "", false
}

// normalizeCategory canonicalizes known labels (including the original
// Spanish ones) and keeps unknown labels verbatim so they round-trip.
func normalizeCategory(cell string) core.Category {
	if c, ok := core.CategoryFromLabel(cell); ok {
		return c
	}
	return core.Category(strings.TrimSpace(cell))
}

// parseDueDate tries, in order: ISO calendar date, a day-month token with
// the configured year rule, then gives up and reports an absent date.
func (n *Normalizer) parseDueDate(cell string, today time.Time) (core.Date, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return core.Date{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return core.Date{Time: t}, true
	}
	if day, month, ok := splitDayMonth(s); ok {
		year := n.years.Year(time.Month(month), day, today)
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range days (31-02 -> Mar 3); reject
		// anything that moved.
		if t.Day() == day && int(t.Month()) == month {
			return core.Date{Time: t}, true
		}
	}
	return core.Date{}, false
}

// splitDayMonth matches a compact "DD-MM" or "DD/MM" token.
func splitDayMonth(s string) (day, month int, ok bool) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, 0, false
	}
	return day, month, true
}

func parsePaid(cell string) bool {
	_, ok := paidTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

func isBlankRow(row core.RawRow) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (r *Report) warn(row int, field, reason string) {
	r.Warnings = append(r.Warnings, Warning{Row: row, Field: field, Reason: reason})
}

// HasWarnings reports whether any fallback was taken.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}
