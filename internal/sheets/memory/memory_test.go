package memory

import (
	"context"
	"testing"

	"finanzas/internal/core"
)

func TestEmptyStoreLoadsEmpty(t *testing.T) {
	rows, err := New(nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReplaceAllAndLoad(t *testing.T) {
	s := New([]core.RawRow{{"Category": "Food", "Item": "old"}})
	ctx := context.Background()

	err := s.ReplaceAll(ctx, []core.ExpenseRecord{
		{Category: core.CategoryHealth, Item: "Prepaga", Amount: core.Money{Cents: 4500000}, Paid: true},
	})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["Category"] != "Health" || rows[0]["AmountARS"] != "45000" || rows[0]["Paid"] != "TRUE" {
		t.Errorf("row = %v", rows[0])
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	s := New([]core.RawRow{{"Category": "Food"}})
	ctx := context.Background()

	rows, _ := s.Load(ctx)
	rows[0]["Category"] = "tampered"

	again, _ := s.Load(ctx)
	if again[0]["Category"] != "Food" {
		t.Error("Load must hand out copies, not shared maps")
	}
}
