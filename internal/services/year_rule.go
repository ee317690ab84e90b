// Package services implements the record pipeline: normalization of raw
// store rows, derivation of display fields, and reconciliation of edited
// rows back into the canonical persisted shape.
//
// This file implements the Strategy Pattern for inferring the year of a
// day-month date token (e.g. "05-11"). The source data is inconsistent
// about what year such a token means, so the rule is configuration, not a
// constant.
package services

import (
	"fmt"
	"time"
)

const (
	// YearRuleNearestFuture picks the next occurrence of the month/day on
	// or after the reference date. Default.
	YearRuleNearestFuture YearRule = "nearest-future"

	// YearRuleCurrentYear always uses the reference date's year.
	YearRuleCurrentYear YearRule = "current-year"

	// YearRuleFixed uses a configured literal year.
	YearRuleFixed YearRule = "fixed"
)

// YearRule names a year-inference strategy.
type YearRule string

// YearInferrer resolves the year for a day-month token relative to today.
type YearInferrer interface {
	Year(month time.Month, day int, today time.Time) int
}

// NearestFutureYear implements YearInferrer by choosing today's year unless
// the month/day already passed, in which case it rolls to the next year.
type NearestFutureYear struct{}

func (NearestFutureYear) Year(month time.Month, day int, today time.Time) int {
	year := today.Year()
	candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(ref) {
		return year + 1
	}
	return year
}

// CurrentYear implements YearInferrer with the reference date's year.
type CurrentYear struct{}

func (CurrentYear) Year(_ time.Month, _ int, today time.Time) int {
	return today.Year()
}

// FixedYear implements YearInferrer with a configured literal year.
type FixedYear struct {
	Value int
}

func (f FixedYear) Year(time.Month, int, time.Time) int {
	return f.Value
}

// YearInferrerFor returns the inferrer for a rule name. fixedYear is only
// consulted for YearRuleFixed.
func YearInferrerFor(rule YearRule, fixedYear int) (YearInferrer, error) {
	switch rule {
	case YearRuleNearestFuture, "":
		return NearestFutureYear{}, nil
	case YearRuleCurrentYear:
		return CurrentYear{}, nil
	case YearRuleFixed:
		if fixedYear < 1900 || fixedYear > 3000 {
			return nil, fmt.Errorf("implausible fixed year: %d", fixedYear)
		}
		return FixedYear{Value: fixedYear}, nil
	default:
		return nil, fmt.Errorf("unknown year rule: %s", rule)
	}
}
