package services

import (
	"reflect"
	"testing"

	"finanzas/internal/core"
)

func defaultReconciler() *Reconciler {
	return NewReconciler(ReconcilerConfig{})
}

func TestReconcileResolvesCategoryForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want core.Category
	}{
		{name: "canonical label", in: "Housing", want: core.CategoryHousing},
		{name: "lowercase label", in: "transport", want: core.CategoryTransport},
		{name: "spanish alias", in: "Alimentos", want: core.CategoryFood},
		{name: "icon glyph", in: "🏠", want: core.CategoryHousing},
		{name: "combined selector value", in: "🎭 Leisure", want: core.CategoryLeisure},
		{name: "combined spanish selector", in: "🏠 Vivienda", want: core.CategoryHousing},
		{name: "unmapped glyph falls back", in: "🦄", want: core.CategoryUnknown},
		{name: "unknown text passes through", in: "Mascotas", want: core.Category("Mascotas")},
		{name: "empty stays empty", in: "", want: core.Category("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := defaultReconciler().Reconcile([]EditedRow{{Category: tt.in}})
			if recs[0].Category != tt.want {
				t.Errorf("category %q resolved to %q, want %q", tt.in, recs[0].Category, tt.want)
			}
		})
	}
}

func TestReconcileConfiguredFallbackCategory(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{FallbackCategory: core.CategoryLeisure})
	recs := r.Reconcile([]EditedRow{{Category: "🦄"}})
	if recs[0].Category != core.CategoryLeisure {
		t.Errorf("fallback = %q, want Leisure", recs[0].Category)
	}
}

func TestReconcileFields(t *testing.T) {
	rows := []EditedRow{
		{Category: "Health", Item: "  Prepaga  ", AmountARS: 45000.50, DueDate: "2025-04-10", Paid: true},
		{Category: "Food", Item: "Super", AmountARS: -10, DueDate: "not a date"},
	}
	recs := defaultReconciler().Reconcile(rows)
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Item != "Prepaga" || recs[0].Amount.Cents != 4500050 || !recs[0].Paid {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[0].DueDate.ISO() != "2025-04-10" {
		t.Errorf("due = %q", recs[0].DueDate.ISO())
	}
	if recs[1].Amount.Cents != 0 {
		t.Errorf("negative amount should clamp to 0, got %d", recs[1].Amount.Cents)
	}
	if !recs[1].DueDate.IsEmpty() {
		t.Error("unparsable due date should be absent")
	}
}

func TestReconcilePersistedRowsCarryNoDerivedFields(t *testing.T) {
	recs := defaultReconciler().Reconcile([]EditedRow{
		{Category: "Housing", Item: "Alquiler", AmountARS: 150000, DueDate: "2025-03-01"},
	})
	row := recs[0].PersistedRow()
	if len(row) != len(core.PersistedHeader) {
		t.Fatalf("persisted row has %d cells, want %d", len(row), len(core.PersistedHeader))
	}
}

func TestReconcileDeletionShrinksSetByOne(t *testing.T) {
	rows := []EditedRow{
		{Category: "Housing", Item: "a", AmountARS: 1},
		{Category: "Food", Item: "b", AmountARS: 2},
		{Category: "Health", Item: "c", AmountARS: 3},
	}
	full := defaultReconciler().Reconcile(rows)

	// Surface deletes the middle row.
	edited := append(append([]EditedRow{}, rows[0]), rows[2])
	smaller := defaultReconciler().Reconcile(edited)

	if len(smaller) != len(full)-1 {
		t.Fatalf("got %d records, want %d", len(smaller), len(full)-1)
	}
	if !reflect.DeepEqual(smaller[0], full[0]) || !reflect.DeepEqual(smaller[1], full[2]) {
		t.Error("surviving records mutated by deletion")
	}
}

func TestReconcilePreservesPresentedOrder(t *testing.T) {
	rows := []EditedRow{
		{Category: "Food", Item: "z", AmountARS: 1, DueDate: "2025-12-01"},
		{Category: "Food", Item: "a", AmountARS: 2, DueDate: "2025-01-01"},
	}
	recs := defaultReconciler().Reconcile(rows)
	if recs[0].Item != "z" || recs[1].Item != "a" {
		t.Error("reconciler must not re-sort the presented order")
	}
}

// Round-trip: normalize -> reconcile -> normalize yields equal records.
func TestRoundTripIsStable(t *testing.T) {
	raw := []core.RawRow{
		{"Category": "Housing", "Item": "Alquiler", "AmountARS": "150000", "DueDate": "2025-03-01", "Paid": "FALSE"},
		{"Category": "Food", "Item": "Super", "AmountARS": "85000.5", "DueDate": "", "Paid": "TRUE"},
		{"Category": "Mascotas", "Item": "Vet", "AmountARS": "", "DueDate": "2025-05-20", "Paid": ""},
	}
	n := defaultNormalizer()
	first, _ := n.Normalize(raw, testToday)

	// Surface round-trip with no user edits.
	edited := make([]EditedRow, len(first))
	for i, rec := range first {
		edited[i] = EditedRow{
			Category:  string(rec.Category),
			Item:      rec.Item,
			AmountARS: rec.Amount.Pesos(),
			DueDate:   rec.DueDate.ISO(),
			Paid:      rec.Paid,
		}
	}
	persisted := defaultReconciler().Reconcile(edited)

	// Re-load what would be written back.
	reloaded := make([]core.RawRow, len(persisted))
	for i, rec := range persisted {
		row := rec.PersistedRow()
		m := core.RawRow{}
		for j, name := range core.PersistedHeader {
			m[name] = row[j]
		}
		reloaded[i] = m
	}
	second, _ := n.Normalize(reloaded, testToday)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip drifted:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
