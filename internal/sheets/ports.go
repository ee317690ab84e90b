// Package sheets defines the record store ports. A store hands over raw,
// untyped rows on load and accepts the full canonical record set on save.
//
// Writes are a full replace: the destination is cleared and rewritten from
// scratch, in the order given. This is a deliberate simplicity tradeoff:
// two sessions writing concurrently race and the later writer wins
// entirely. The stores provide no locking.
package sheets

import (
	"context"

	"finanzas/internal/core"
)

type (
	// RecordLoader reads the raw row set. An empty store yields an empty
	// slice, not an error.
	RecordLoader interface {
		Load(ctx context.Context) ([]core.RawRow, error)
	}

	// RecordReplacer clears the destination and writes the header row
	// followed by the given records, preserving their order.
	RecordReplacer interface {
		ReplaceAll(ctx context.Context, records []core.ExpenseRecord) error
	}

	// Store is a full record store.
	Store interface {
		RecordLoader
		RecordReplacer
	}
)
