package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Accumulator buffers the hourly observations of the day being built.
// It is a value: Push returns a new Accumulator and never modifies the
// receiver, so a flushed group is replaced instead of cleared.
type Accumulator struct {
	hours []HourlyObservation
}

// Push returns an accumulator holding the receiver's hours followed by obs.
func (a Accumulator) Push(obs HourlyObservation) Accumulator {
	return Accumulator{hours: append(slices.Clip(a.hours), obs)}
}

// Len reports the number of buffered hours.
func (a Accumulator) Len() int {
	return len(a.hours)
}

// Flush computes the daily statistics over the buffered hours. The result is
// dated by the last buffered observation. An empty accumulator yields an
// error wrapping ErrAggregation.
func (a Accumulator) Flush() (DailyResult, error) {
	n := len(a.hours)
	if n == 0 {
		return DailyResult{}, fmt.Errorf("%w: empty day group", ErrAggregation)
	}

	precip := summarize(a.hours, func(o HourlyObservation) float64 { return o.Precip })
	temp := summarize(a.hours, func(o HourlyObservation) float64 { return o.Temp })
	rh := summarize(a.hours, func(o HourlyObservation) float64 { return o.RH })
	wind := summarize(a.hours, func(o HourlyObservation) float64 { return o.Wind })
	rn := summarize(a.hours, func(o HourlyObservation) float64 { return o.Radiation })
	vp := summarize(a.hours, func(o HourlyObservation) float64 { return o.VaporPressure })
	lw := summarize(a.hours, func(o HourlyObservation) float64 { return o.Longwave })

	return DailyResult{
		Date:             startOfDay(a.hours[n-1].Time),
		Samples:          n,
		Rain:             precip.sum,
		TMin:             temp.min,
		TMax:             temp.max,
		TAvg:             temp.mean(),
		RelativeHumidity: rh.mean(),
		Wind:             wind.mean(),
		KdownDirect:      rn.mean(),
		VPD:              vp.mean(),
		Ldown:            lw.sum,
	}, nil
}

// Aggregation is the outcome of grouping an hourly series into days.
type Aggregation struct {
	Hours    int
	Days     []DailyResult
	Warnings []Warning
}

// Aggregate groups observations into calendar days, closing a group on each
// hour-23 observation. Observations are consumed in the given order.
// Data-quality problems are reported as warnings; only a failed flush is an
// error.
func Aggregate(observations []HourlyObservation) (Aggregation, error) {
	result := Aggregation{Hours: len(observations)}
	if len(observations) == 0 {
		result.Warnings = append(result.Warnings, Warning{Kind: WarningNoHourlyRecords})
		return result, nil
	}

	var acc Accumulator
	for _, obs := range observations {
		acc = acc.Push(obs)
		if obs.Time.Hour() != dayBoundaryHour {
			continue
		}

		day, err := acc.Flush()
		if err != nil {
			return Aggregation{}, err
		}
		if day.Samples != HoursPerDay {
			result.Warnings = append(result.Warnings, Warning{
				Kind:     WarningIncompleteDay,
				Date:     obs.Time,
				Count:    day.Samples,
				Expected: HoursPerDay,
			})
		}
		result.Days = append(result.Days, day)
		acc = Accumulator{}
	}

	if expected := len(observations) / HoursPerDay; len(result.Days) != expected {
		result.Warnings = append(result.Warnings, Warning{
			Kind:     WarningDayCountMismatch,
			Count:    len(result.Days),
			Expected: expected,
		})
	}

	// Trailing partial day: no hour-23 record closed it, so it is not emitted.
	if acc.Len() > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Kind:  WarningTrailingDropped,
			Count: acc.Len(),
		})
	}

	return result, nil
}

type summary struct {
	n   int
	sum float64
	min float64
	max float64
}

// mean never leaves [min, max], even when the running sum rounds.
func (s summary) mean() float64 {
	return min(max(s.sum/float64(s.n), s.min), s.max)
}

func summarize(hours []HourlyObservation, value func(HourlyObservation) float64) summary {
	s := summary{min: math.Inf(1), max: math.Inf(-1)}
	for _, h := range hours {
		v := value(h)
		s.n++
		s.sum += v
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
