// Package core holds the typed expense record domain: categories, money,
// dates and the canonical persisted layout.
//
// This file contains tolerant amount parsing. Record stores hand over raw
// cell text; a cell that does not parse as a non-negative decimal yields
// zero rather than an error, so one bad cell never aborts a load.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmountToCents coerces raw cell text into ARS cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading currency sign. The second return value reports whether
// the cell actually parsed; callers treat false as "defaulted to zero".
//
// Examples:
//
//	ParseAmountToCents("150000")    -> 15000000, true
//	ParseAmountToCents("1234,56")   -> 123456, true
//	ParseAmountToCents("$ 99.90")   -> 9990, true
//	ParseAmountToCents("N/A")       -> 0, false
//	ParseAmountToCents("")          -> 0, false
func ParseAmountToCents(s string) (Money, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, false
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, false
	}
	// Amounts are non-negative by contract; a negative cell is as malformed
	// as a textual one.
	if f < 0 {
		return Money{}, false
	}
	const maxSafe = float64(1<<62) / 100
	if f > maxSafe {
		return Money{}, false
	}
	return Money{Cents: int64(f*100 + 0.5)}, true
}
