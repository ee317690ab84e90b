package core

import (
	"errors"
	"strconv"
	"time"
)

const (
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
	StatusDueSoon Status = "DueSoon"
	StatusOnTrack Status = "OnTrack"
	StatusNoDate  Status = "NoDate"
)

type (
	// Status classifies a record by payment state relative to a reference date.
	// It is derived at read time and never persisted.
	Status string

	Date struct {
		time.Time
	}

	// Money is an ARS amount in cents.
	Money struct {
		Cents int64
	}

	// ExpenseRecord is one row of spending data in its canonical persisted
	// shape. Derived display fields live in services.DisplayRecord.
	ExpenseRecord struct {
		Category Category
		Item     string
		Amount   Money
		DueDate  Date // zero when the source had no parsable date
		Paid     bool
	}

	// RawRow is one untyped row as handed over by a record store. Keys are
	// the store's column headers, values the raw cell text.
	RawRow map[string]string
)

var ErrInvalidAmount = errors.New("invalid amount")

// PersistedHeader is the canonical column layout every record store writes.
// Older data may lack the Paid column; the normalizer defaults it to false.
var PersistedHeader = []string{"Category", "Item", "AmountARS", "DueDate", "Paid"}

// NewDate creates a date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// ISO returns YYYY-MM-DD, or the empty string for an absent date.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Before compares calendar days, ignoring any time-of-day component.
func (d Date) Before(other Date) bool {
	return d.ISO() < other.ISO()
}

// PersistedRow serializes the canonical fields in PersistedHeader order.
// Derived fields never appear here; round-tripping the result through the
// normalizer yields an equal record.
func (e ExpenseRecord) PersistedRow() []string {
	paid := "FALSE"
	if e.Paid {
		paid = "TRUE"
	}
	return []string{
		string(e.Category),
		e.Item,
		e.Amount.String(),
		e.DueDate.ISO(),
		paid,
	}
}

// Pesos returns the ARS value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Pesos() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a plain decimal with no thousands grouping,
// e.g. "150000" or "150000.5", so persisted cells re-parse cleanly.
func (m Money) String() string {
	return strconv.FormatFloat(m.Pesos(), 'f', -1, 64)
}
