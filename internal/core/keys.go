package core

import (
	"math"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Timestamps are ordered by their UnixNano value, which is only defined
// within this range.
var (
	minTimestamp = time.Unix(0, math.MinInt64)
	maxTimestamp = time.Unix(0, math.MaxInt64)
)

// ValidTimestamp reports whether t can be stored and ordered.
func ValidTimestamp(t time.Time) bool {
	return !t.Before(minTimestamp) && !t.After(maxTimestamp)
}

// DeriveKeys returns the day and month grouping keys of t, read from t's own
// calendar fields. Stored once at creation and never recomputed.
func DeriveKeys(t time.Time) (day, month string) {
	return t.Format(DayLayout), t.Format(MonthLayout)
}
