package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finanzas/internal/core"
)

func TestLoadMissingFileIsEmptyStore(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gastos.csv"))
	rows, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReplaceAllThenLoadRoundTrips(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gastos.csv"))
	records := []core.ExpenseRecord{
		{Category: core.CategoryHousing, Item: "Alquiler", Amount: core.Money{Cents: 15000000}, DueDate: core.NewDate(2025, 3, 1)},
		{Category: core.CategoryFood, Item: "Super, centro", Amount: core.Money{Cents: 8500050}, Paid: true},
	}
	if err := s.ReplaceAll(context.Background(), records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	rows, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Category"] != "Housing" || rows[0]["AmountARS"] != "150000" || rows[0]["DueDate"] != "2025-03-01" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["Item"] != "Super, centro" || rows[1]["Paid"] != "TRUE" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestReplaceAllOverwritesEntirely(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gastos.csv"))
	ctx := context.Background()

	first := []core.ExpenseRecord{
		{Category: core.CategoryFood, Item: "a"},
		{Category: core.CategoryFood, Item: "b"},
	}
	if err := s.ReplaceAll(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := []core.ExpenseRecord{
		{Category: core.CategoryHealth, Item: "only"},
	}
	if err := s.ReplaceAll(ctx, second); err != nil {
		t.Fatal(err)
	}

	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["Item"] != "only" {
		t.Errorf("rows after overwrite = %v", rows)
	}
}

func TestReplaceAllEmptySetLeavesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	s := New(path)
	if err := s.ReplaceAll(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Category,Item,AmountARS,DueDate,Paid\n" {
		t.Errorf("file contents = %q", data)
	}
	rows, err := s.Load(context.Background())
	if err != nil || len(rows) != 0 {
		t.Errorf("Load = %v, %v", rows, err)
	}
}

func TestLoadRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	content := "Category,Item,AmountARS,DueDate\nFood,Super,100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 1 || rows[0]["DueDate"] != "" {
		t.Errorf("rows = %v", rows)
	}
}
