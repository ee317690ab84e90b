package services

import (
	"testing"
	"time"

	"finanzas/internal/core"
)

var testToday = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func defaultNormalizer() *Normalizer {
	return NewNormalizer(NormalizerConfig{})
}

func TestNormalizeCanonicalHeaders(t *testing.T) {
	rows := []core.RawRow{
		{"Category": "Housing", "Item": "Alquiler", "AmountARS": "150000", "DueDate": "2025-03-01", "Paid": "FALSE"},
	}
	records, report := defaultNormalizer().Normalize(rows, testToday)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Category != core.CategoryHousing || rec.Item != "Alquiler" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Amount.Cents != 15000000 {
		t.Errorf("amount = %d cents, want 15000000", rec.Amount.Cents)
	}
	if rec.DueDate.ISO() != "2025-03-01" || rec.Paid {
		t.Errorf("due=%q paid=%v", rec.DueDate.ISO(), rec.Paid)
	}
	if report.HasWarnings() {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestNormalizeSpanishHeaders(t *testing.T) {
	// The original sheet's actual layout must load without configuration.
	rows := []core.RawRow{
		{"Categoría": "Vivienda", "Ítem": "Alquiler", "Monto (ARS)": "150000", "Día Pago": "2025-03-01"},
	}
	records, _ := defaultNormalizer().Normalize(rows, testToday)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Category != core.CategoryHousing {
		t.Errorf("category = %q, want Housing", rec.Category)
	}
	if rec.Item != "Alquiler" || rec.Amount.Cents != 15000000 || rec.DueDate.ISO() != "2025-03-01" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Paid {
		t.Error("paid should default to false when the column is absent")
	}
}

func TestNormalizePaidNotClaimedByDateKeyword(t *testing.T) {
	rows := []core.RawRow{
		{"Category": "Food", "Item": "x", "AmountARS": "10", "Pagado": "VERDADERO", "Fecha de pago": "2025-04-01"},
	}
	records, _ := defaultNormalizer().Normalize(rows, testToday)
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if !records[0].Paid {
		t.Error("Pagado column should resolve to the paid flag")
	}
	if records[0].DueDate.ISO() != "2025-04-01" {
		t.Errorf("due = %q, want 2025-04-01", records[0].DueDate.ISO())
	}
}

func TestNormalizeUnparsableAmountIsZero(t *testing.T) {
	rows := []core.RawRow{
		{"Category": "Food", "Item": "a", "AmountARS": "not a number"},
		{"Category": "Food", "Item": "b", "AmountARS": ""},
		{"Category": "Food", "Item": "c", "AmountARS": "1.234.567,89"},
	}
	records, report := defaultNormalizer().Normalize(rows, testToday)
	for i, rec := range records {
		if rec.Amount.Cents != 0 {
			t.Errorf("row %d amount = %d, want 0", i, rec.Amount.Cents)
		}
	}
	defaulted := 0
	for _, w := range report.Warnings {
		if w.Field == FieldAmount && w.Reason == ReasonUnparsable {
			defaulted++
		}
	}
	if defaulted != 3 {
		t.Errorf("got %d amount fallbacks, want 3", defaulted)
	}
}

func TestParseDueDateFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    string // ISO, "" for absent
		wantOK  bool
		rule    YearRule
		fixedYr int
	}{
		{name: "iso", cell: "2025-03-01", want: "2025-03-01", wantOK: true},
		{name: "day-month future this year", cell: "20-11", want: "2025-11-20", wantOK: true},
		{name: "day-month slash", cell: "20/11", want: "2025-11-20", wantOK: true},
		{name: "day-month already passed rolls over", cell: "01-02", want: "2026-02-01", wantOK: true},
		{name: "day-month today stays", cell: "15-03", want: "2025-03-15", wantOK: true},
		{name: "current-year rule keeps past date", cell: "01-02", want: "2025-02-01", wantOK: true, rule: YearRuleCurrentYear},
		{name: "fixed year rule", cell: "05-06", want: "2024-06-05", wantOK: true, rule: YearRuleFixed, fixedYr: 2024},
		{name: "impossible day-month", cell: "31-02", want: "", wantOK: false},
		{name: "garbage", cell: "soon", want: "", wantOK: false},
		{name: "blank", cell: "   ", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(NormalizerConfig{YearRule: tt.rule, FixedYear: tt.fixedYr})
			got, ok := n.parseDueDate(tt.cell, testToday)
			if ok != tt.wantOK || got.ISO() != tt.want {
				t.Errorf("parseDueDate(%q) = %q, %v, want %q, %v", tt.cell, got.ISO(), ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePaidVocabulary(t *testing.T) {
	truthy := []string{"TRUE", "true", "VERDADERO", "verdadero", "1", "✓", "✔", " TRUE "}
	for _, s := range truthy {
		if !parsePaid(s) {
			t.Errorf("parsePaid(%q) = false, want true", s)
		}
	}
	falsy := []string{"", "FALSE", "0", "no", "yes", "2", "paid"}
	for _, s := range falsy {
		if parsePaid(s) {
			t.Errorf("parsePaid(%q) = true, want false", s)
		}
	}
}

func TestNormalizeEmptyStore(t *testing.T) {
	records, report := defaultNormalizer().Normalize(nil, testToday)
	if len(records) != 0 {
		t.Fatalf("got %d records from empty store", len(records))
	}
	if report.HasWarnings() {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestNormalizeSkipsBlankRows(t *testing.T) {
	rows := []core.RawRow{
		{"Category": "Food", "Item": "a", "AmountARS": "10"},
		{"Category": "", "Item": "  ", "AmountARS": ""},
		{"Category": "Health", "Item": "b", "AmountARS": "20"},
	}
	records, report := defaultNormalizer().Normalize(rows, testToday)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Item != "a" || records[1].Item != "b" {
		t.Errorf("order not preserved: %+v", records)
	}
	found := false
	for _, w := range report.Warnings {
		if w.Row == 1 && w.Reason == ReasonEmptyRow {
			found = true
		}
	}
	if !found {
		t.Error("blank row should be reported")
	}
}

func TestNormalizeUnknownCategoryKeptVerbatim(t *testing.T) {
	rows := []core.RawRow{
		{"Category": "Mascotas", "Item": "vet", "AmountARS": "5000"},
	}
	records, report := defaultNormalizer().Normalize(rows, testToday)
	if records[0].Category != "Mascotas" {
		t.Errorf("category = %q, want verbatim Mascotas", records[0].Category)
	}
	if records[0].Category.Icon() != core.UnknownIcon {
		t.Errorf("icon = %q, want sentinel", records[0].Category.Icon())
	}
	if len(report.Warnings) == 0 || report.Warnings[0].Reason != ReasonUnknownCategory {
		t.Errorf("expected unknown-category warning, got %v", report.Warnings)
	}
}
