package services

import (
	"sort"
	"time"

	"finanzas/internal/core"
)

const (
	// TotalAll aggregates every record.
	TotalAll TotalMode = "all"
	// TotalUnpaid aggregates only records not yet paid; paid records get
	// weight 0 so the weight sum invariant still holds.
	TotalUnpaid TotalMode = "unpaid"
)

type (
	// TotalMode names which subset the aggregates cover.
	TotalMode string

	// DerivationConfig controls status classification and aggregation.
	DerivationConfig struct {
		// DueSoonDays is the lookahead window for the DueSoon status.
		// 0 disables the status entirely (those records classify OnTrack).
		DueSoonDays int
		TotalMode   TotalMode
	}

	// Engine computes derived display fields and whole-set aggregates.
	// Derived fields are recomputed on every load and never persisted.
	Engine struct {
		cfg DerivationConfig
	}

	// DisplayRecord is a canonical record plus its derived display fields.
	DisplayRecord struct {
		core.ExpenseRecord
		AmountUSD float64
		Status    core.Status
		Weight    float64
		Icon      string
	}

	// CategoryShare is one slice of the category breakdown, in first-seen
	// order.
	CategoryShare struct {
		Category core.Category
		Icon     string
		Amount   core.Money
		Weight   float64
	}

	// Aggregates summarizes the whole record set under the configured
	// total mode.
	Aggregates struct {
		TotalARS   core.Money
		TotalUSD   float64
		Count      int
		ByCategory []CategoryShare
	}
)

// NewEngine builds a derivation engine. An unknown total mode falls back to
// TotalAll.
func NewEngine(cfg DerivationConfig) *Engine {
	if cfg.TotalMode != TotalUnpaid {
		cfg.TotalMode = TotalAll
	}
	if cfg.DueSoonDays < 0 {
		cfg.DueSoonDays = 0
	}
	return &Engine{cfg: cfg}
}

// StatusOf classifies a record by payment state. It is a pure function of
// (paid, due, today, window); first match wins:
// Paid, NoDate, Overdue, DueSoon (when window > 0), OnTrack.
func StatusOf(paid bool, due core.Date, today time.Time, dueSoonDays int) core.Status {
	if paid {
		return core.StatusPaid
	}
	if due.IsEmpty() {
		return core.StatusNoDate
	}
	ref := dateOnly(today)
	d := dateOnly(due.Time)
	if d.Before(ref) {
		return core.StatusOverdue
	}
	if dueSoonDays > 0 && !d.After(ref.AddDate(0, 0, dueSoonDays)) {
		return core.StatusDueSoon
	}
	return core.StatusOnTrack
}

// Derive computes per-record display fields and the aggregates for the set.
// rate is ARS per USD; a non-positive rate leaves USD amounts at 0 rather
// than dividing by zero.
func (e *Engine) Derive(records []core.ExpenseRecord, rate float64, today time.Time) ([]DisplayRecord, Aggregates) {
	out := make([]DisplayRecord, 0, len(records))

	var total int64
	for _, rec := range records {
		if e.counts(rec) {
			total += rec.Amount.Cents
		}
	}

	agg := Aggregates{
		TotalARS: core.Money{Cents: total},
		Count:    len(records),
	}
	if rate > 0 {
		agg.TotalUSD = agg.TotalARS.Pesos() / rate
	}

	byCat := map[core.Category]int64{}
	catOrder := make([]core.Category, 0)

	for _, rec := range records {
		d := DisplayRecord{
			ExpenseRecord: rec,
			Status:        StatusOf(rec.Paid, rec.DueDate, today, e.cfg.DueSoonDays),
			Icon:          rec.Category.Icon(),
		}
		if rate > 0 {
			d.AmountUSD = rec.Amount.Pesos() / rate
		}
		if total > 0 && e.counts(rec) {
			d.Weight = float64(rec.Amount.Cents) / float64(total)
		}
		out = append(out, d)

		if e.counts(rec) {
			if _, seen := byCat[rec.Category]; !seen {
				catOrder = append(catOrder, rec.Category)
			}
			byCat[rec.Category] += rec.Amount.Cents
		}
	}

	for _, c := range catOrder {
		share := CategoryShare{
			Category: c,
			Icon:     c.Icon(),
			Amount:   core.Money{Cents: byCat[c]},
		}
		if total > 0 {
			share.Weight = float64(byCat[c]) / float64(total)
		}
		agg.ByCategory = append(agg.ByCategory, share)
	}

	return out, agg
}

// counts reports whether a record participates in totals and weights under
// the configured mode.
func (e *Engine) counts(rec core.ExpenseRecord) bool {
	return e.cfg.TotalMode != TotalUnpaid || !rec.Paid
}

// SortCanonical orders records for the default dashboard view: unpaid
// before paid, then ascending due date. Absent dates sort as +infinity, so
// they land last within their paid group. The sort is stable, so records
// that tie keep their input order.
func SortCanonical(records []DisplayRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Paid != records[j].Paid {
			return !records[i].Paid
		}
		return dueKey(records[i].DueDate) < dueKey(records[j].DueDate)
	})
}

// dueKey yields a sortable ISO key, with absent dates after every real one.
func dueKey(d core.Date) string {
	if d.IsEmpty() {
		return "9999-99-99"
	}
	return d.ISO()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
