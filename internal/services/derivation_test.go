package services

import (
	"math"
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestStatusOf(t *testing.T) {
	today := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		paid   bool
		due    core.Date
		window int
		want   core.Status
	}{
		{name: "paid wins regardless of date", paid: true, due: core.NewDate(2020, 1, 1), want: core.StatusPaid},
		{name: "paid with no date", paid: true, want: core.StatusPaid},
		{name: "no date", due: core.Date{}, want: core.StatusNoDate},
		{name: "yesterday is overdue", due: core.NewDate(2025, 3, 14), want: core.StatusOverdue},
		{name: "today is on track", due: core.NewDate(2025, 3, 15), want: core.StatusOnTrack},
		{name: "future is on track", due: core.NewDate(2025, 4, 1), want: core.StatusOnTrack},
		{name: "window disabled collapses due soon", due: core.NewDate(2025, 3, 17), window: 0, want: core.StatusOnTrack},
		{name: "inside window", due: core.NewDate(2025, 3, 17), window: 3, want: core.StatusDueSoon},
		{name: "window boundary inclusive", due: core.NewDate(2025, 3, 18), window: 3, want: core.StatusDueSoon},
		{name: "just outside window", due: core.NewDate(2025, 3, 19), window: 3, want: core.StatusOnTrack},
		{name: "today inside window", due: core.NewDate(2025, 3, 15), window: 3, want: core.StatusDueSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusOf(tt.paid, tt.due, today, tt.window)
			if got != tt.want {
				t.Errorf("StatusOf(paid=%v, due=%s, window=%d) = %s, want %s",
					tt.paid, tt.due.ISO(), tt.window, got, tt.want)
			}
		})
	}
}

func TestDeriveScenario(t *testing.T) {
	// Single Housing row, rate 1500, today past the due date.
	records := []core.ExpenseRecord{
		{Category: core.CategoryHousing, Amount: core.Money{Cents: 15000000}, DueDate: core.NewDate(2025, 3, 1)},
	}
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	display, agg := NewEngine(DerivationConfig{}).Derive(records, 1500, today)
	if len(display) != 1 {
		t.Fatalf("got %d display records", len(display))
	}
	d := display[0]
	if math.Abs(d.AmountUSD-100.0) > 1e-9 {
		t.Errorf("AmountUSD = %f, want 100.0", d.AmountUSD)
	}
	if d.Status != core.StatusOverdue {
		t.Errorf("Status = %s, want Overdue", d.Status)
	}
	if d.Weight != 1.0 {
		t.Errorf("Weight = %f, want 1.0", d.Weight)
	}
	if d.Icon != "🏠" {
		t.Errorf("Icon = %q, want 🏠", d.Icon)
	}
	if agg.TotalARS.Cents != 15000000 || math.Abs(agg.TotalUSD-100.0) > 1e-9 {
		t.Errorf("aggregates = %+v", agg)
	}
}

func TestDeriveWeightsSumToOne(t *testing.T) {
	records := []core.ExpenseRecord{
		{Category: core.CategoryFood, Amount: core.Money{Cents: 100033}},
		{Category: core.CategoryHealth, Amount: core.Money{Cents: 299967}},
		{Category: core.CategoryLeisure, Amount: core.Money{Cents: 77777}},
	}
	display, _ := NewEngine(DerivationConfig{}).Derive(records, 1500, testToday)

	var sum float64
	for _, d := range display {
		sum += d.Weight
	}
	if math.Abs(sum-1.0) > 0.001 {
		t.Errorf("weight sum = %f, want within 0.001 of 1", sum)
	}
	// Monotonic in amount
	if !(display[1].Weight > display[0].Weight && display[0].Weight > display[2].Weight) {
		t.Errorf("weights not monotonic: %f %f %f", display[0].Weight, display[1].Weight, display[2].Weight)
	}
}

func TestDeriveEmptySetHasZeroAggregates(t *testing.T) {
	display, agg := NewEngine(DerivationConfig{}).Derive(nil, 1500, testToday)
	if len(display) != 0 {
		t.Fatalf("got %d records", len(display))
	}
	if agg.TotalARS.Cents != 0 || agg.TotalUSD != 0 || agg.Count != 0 || len(agg.ByCategory) != 0 {
		t.Errorf("aggregates not zero: %+v", agg)
	}
}

func TestDeriveZeroTotalYieldsZeroWeights(t *testing.T) {
	records := []core.ExpenseRecord{
		{Category: core.CategoryFood},
		{Category: core.CategoryHealth},
	}
	display, _ := NewEngine(DerivationConfig{}).Derive(records, 1500, testToday)
	for i, d := range display {
		if d.Weight != 0 {
			t.Errorf("record %d weight = %f, want 0", i, d.Weight)
		}
	}
}

func TestDeriveUnpaidMode(t *testing.T) {
	records := []core.ExpenseRecord{
		{Category: core.CategoryFood, Amount: core.Money{Cents: 100000}, Paid: true},
		{Category: core.CategoryHealth, Amount: core.Money{Cents: 300000}},
		{Category: core.CategoryLeisure, Amount: core.Money{Cents: 100000}},
	}
	display, agg := NewEngine(DerivationConfig{TotalMode: TotalUnpaid}).Derive(records, 1500, testToday)

	if agg.TotalARS.Cents != 400000 {
		t.Errorf("unpaid total = %d, want 400000", agg.TotalARS.Cents)
	}
	if display[0].Weight != 0 {
		t.Errorf("paid record weight = %f, want 0", display[0].Weight)
	}
	var sum float64
	for _, d := range display {
		sum += d.Weight
	}
	if math.Abs(sum-1.0) > 0.001 {
		t.Errorf("weight sum = %f, want ~1", sum)
	}
	// Paid record's category should not appear in the breakdown.
	for _, share := range agg.ByCategory {
		if share.Category == core.CategoryFood {
			t.Error("paid record leaked into category breakdown")
		}
	}
}

func TestDeriveCategoryBreakdownFirstSeenOrder(t *testing.T) {
	records := []core.ExpenseRecord{
		{Category: core.CategoryFood, Amount: core.Money{Cents: 100}},
		{Category: core.CategoryHealth, Amount: core.Money{Cents: 200}},
		{Category: core.CategoryFood, Amount: core.Money{Cents: 300}},
	}
	_, agg := NewEngine(DerivationConfig{}).Derive(records, 1500, testToday)
	if len(agg.ByCategory) != 2 {
		t.Fatalf("got %d categories, want 2", len(agg.ByCategory))
	}
	if agg.ByCategory[0].Category != core.CategoryFood || agg.ByCategory[0].Amount.Cents != 400 {
		t.Errorf("first share = %+v", agg.ByCategory[0])
	}
	if agg.ByCategory[1].Category != core.CategoryHealth {
		t.Errorf("second share = %+v", agg.ByCategory[1])
	}
}

func TestSortCanonical(t *testing.T) {
	display := []DisplayRecord{
		{ExpenseRecord: core.ExpenseRecord{Item: "paid-early", Paid: true, DueDate: core.NewDate(2025, 1, 1)}},
		{ExpenseRecord: core.ExpenseRecord{Item: "unpaid-nodate"}},
		{ExpenseRecord: core.ExpenseRecord{Item: "unpaid-late", DueDate: core.NewDate(2025, 6, 1)}},
		{ExpenseRecord: core.ExpenseRecord{Item: "unpaid-early", DueDate: core.NewDate(2025, 2, 1)}},
		{ExpenseRecord: core.ExpenseRecord{Item: "paid-nodate", Paid: true}},
	}
	SortCanonical(display)

	got := make([]string, len(display))
	for i, d := range display {
		got[i] = d.Item
	}
	want := []string{"unpaid-early", "unpaid-late", "unpaid-nodate", "paid-early", "paid-nodate"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortCanonicalIsStable(t *testing.T) {
	due := core.NewDate(2025, 5, 1)
	display := []DisplayRecord{
		{ExpenseRecord: core.ExpenseRecord{Item: "first", DueDate: due}},
		{ExpenseRecord: core.ExpenseRecord{Item: "second", DueDate: due}},
	}
	SortCanonical(display)
	if display[0].Item != "first" || display[1].Item != "second" {
		t.Errorf("equal keys reordered: %v, %v", display[0].Item, display[1].Item)
	}
}
