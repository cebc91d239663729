package domain

import "fmt"

// SeriesMapping selects which DailyResult field feeds each output file.
type SeriesMapping string

const (
	// SeriesMappingCorrected writes every field to the file of the same name.
	SeriesMappingCorrected SeriesMapping = "corrected"

	// SeriesMappingLegacy reproduces the original HydroTerre converter:
	// the Kdown_direct file holds daily wind and the Ldown file holds daily vpd.
	SeriesMappingLegacy SeriesMapping = "legacy"
)

// ParseSeriesMapping validates a mapping name.
func ParseSeriesMapping(s string) (SeriesMapping, error) {
	switch m := SeriesMapping(s); m {
	case SeriesMappingCorrected, SeriesMappingLegacy:
		return m, nil
	default:
		return "", fmt.Errorf("unknown series mapping %q (allowed: corrected, legacy)", s)
	}
}

// Series is one RHESSys climate file: its suffix and the daily value it holds.
type Series struct {
	Suffix string
	Value  func(DailyResult) float64
}

// SeriesFor returns the nine output series in file order. Unknown mappings
// fall back to SeriesMappingCorrected.
func SeriesFor(mapping SeriesMapping) []Series {
	kdown := func(d DailyResult) float64 { return d.KdownDirect }
	ldown := func(d DailyResult) float64 { return d.Ldown }
	if mapping == SeriesMappingLegacy {
		kdown = func(d DailyResult) float64 { return d.Wind }
		ldown = func(d DailyResult) float64 { return d.VPD }
	}

	return []Series{
		{Suffix: "rain", Value: func(d DailyResult) float64 { return d.Rain }},
		{Suffix: "tmin", Value: func(d DailyResult) float64 { return d.TMin }},
		{Suffix: "tmax", Value: func(d DailyResult) float64 { return d.TMax }},
		{Suffix: "tavg", Value: func(d DailyResult) float64 { return d.TAvg }},
		{Suffix: "relative_humidity", Value: func(d DailyResult) float64 { return d.RelativeHumidity }},
		{Suffix: "wind", Value: func(d DailyResult) float64 { return d.Wind }},
		{Suffix: "Kdown_direct", Value: kdown},
		{Suffix: "vpd", Value: func(d DailyResult) float64 { return d.VPD }},
		{Suffix: "Ldown", Value: ldown},
	}
}
