package services

import (
	"strings"
	"time"
	"unicode"

	"finanzas/internal/core"
)

type (
	// EditedRow is one row as returned by the presentation surface after an
	// editing session. Derived fields (USD amount, status, weight) are
	// read-only in the surface and not part of this shape; Category may be
	// either the canonical label or its icon glyph, since the surface's
	// selector shows icons.
	EditedRow struct {
		Category  string  `json:"category"`
		Item      string  `json:"item"`
		AmountARS float64 `json:"amount_ars"`
		DueDate   string  `json:"due_date"` // ISO or empty
		Paid      bool    `json:"paid"`
	}

	// ReconcilerConfig controls edit reconciliation.
	ReconcilerConfig struct {
		// FallbackCategory receives rows whose icon glyph maps to nothing.
		FallbackCategory core.Category
	}

	// Reconciler merges user edits back into the canonical schema. The
	// output carries only persisted fields; the write that follows is a
	// full replace in the presented order, not re-sorted.
	Reconciler struct {
		cfg ReconcilerConfig
	}
)

// NewReconciler builds a reconciler. An empty fallback category defaults to
// CategoryUnknown so a bad glyph stays visible instead of silently turning
// into a real category.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.FallbackCategory == "" {
		cfg.FallbackCategory = core.CategoryUnknown
	}
	return &Reconciler{cfg: cfg}
}

// Reconcile converts the presented row set into the exact record set to
// persist. Row additions and deletions are implicit: whatever rows arrive
// is what gets written. Malformed cells degrade the same way the
// normalizer degrades them, never failing the save.
func (r *Reconciler) Reconcile(rows []EditedRow) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		rec := core.ExpenseRecord{
			Category: r.resolveCategory(row.Category),
			Item:     strings.TrimSpace(row.Item),
			Paid:     row.Paid,
		}
		if row.AmountARS > 0 {
			rec.Amount = core.Money{Cents: int64(row.AmountARS*100 + 0.5)}
		}
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(row.DueDate)); err == nil {
			rec.DueDate = core.Date{Time: t}
		}
		out = append(out, rec)
	}
	return out
}

// resolveCategory accepts the canonical label, a known alias, an icon
// glyph, or the surface's combined "🏠 Housing" selector value. Unmapped
// glyphs resolve to the configured fallback; unknown plain-text labels pass
// through verbatim so they round-trip.
func (r *Reconciler) resolveCategory(s string) core.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		// Not a glyph, just an empty cell; keep it empty so an untouched
		// row round-trips unchanged.
		return ""
	}
	if c, ok := core.CategoryFromLabel(s); ok {
		return c
	}
	if c, ok := core.CategoryFromIcon(s); ok {
		return c
	}
	// Combined selector value: glyph plus label, keep the label part.
	if fields := strings.Fields(s); len(fields) > 1 {
		if c, ok := core.CategoryFromLabel(fields[len(fields)-1]); ok {
			return c
		}
	}
	if isGlyphOnly(s) {
		return r.cfg.FallbackCategory
	}
	return core.Category(s)
}

// isGlyphOnly reports whether the value carries no letters or digits at
// all, i.e. it was an icon cell rather than a label.
func isGlyphOnly(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
