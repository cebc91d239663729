package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrAggregation marks a failure while computing daily statistics. The
// converter exits with a distinguished status when it sees this error.
var ErrAggregation = errors.New("aggregation failed")

// WarningKind classifies a data-quality warning.
type WarningKind string

const (
	WarningIncompleteDay    WarningKind = "incomplete_day"
	WarningDayCountMismatch WarningKind = "day_count_mismatch"
	WarningTrailingDropped  WarningKind = "trailing_hours_dropped"
	WarningNoHourlyRecords  WarningKind = "no_records"
)

// WarningKinds lists every kind, in reporting order.
var WarningKinds = []WarningKind{
	WarningIncompleteDay,
	WarningDayCountMismatch,
	WarningTrailingDropped,
	WarningNoHourlyRecords,
}

// Warning is a non-fatal data-quality finding. Processing continues.
type Warning struct {
	Kind     WarningKind
	Date     time.Time // closing record time for incomplete_day, zero otherwise
	Count    int
	Expected int
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningIncompleteDay:
		return fmt.Sprintf("record count is not complete for %s: averaging day with only %d of %d records",
			w.Date.Format(time.DateTime), w.Count, w.Expected)
	case WarningDayCountMismatch:
		return fmt.Sprintf("record counts do not match: %d days produced, %d expected", w.Count, w.Expected)
	case WarningTrailingDropped:
		return fmt.Sprintf("data list is not empty: ignoring %d trailing values to keep records per day", w.Count)
	case WarningNoHourlyRecords:
		return "forcing document contains no hourly records"
	default:
		return string(w.Kind)
	}
}
