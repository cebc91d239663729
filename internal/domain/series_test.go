package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDay() DailyResult {
	return DailyResult{
		Rain:             1,
		TMin:             2,
		TMax:             3,
		TAvg:             4,
		RelativeHumidity: 5,
		Wind:             6,
		KdownDirect:      7,
		VPD:              8,
		Ldown:            9,
	}
}

func TestSeriesFor_Corrected(t *testing.T) {
	series := SeriesFor(SeriesMappingCorrected)
	require.Len(t, series, 9)

	day := sampleDay()
	got := make(map[string]float64, len(series))
	suffixes := make([]string, 0, len(series))
	for _, s := range series {
		got[s.Suffix] = s.Value(day)
		suffixes = append(suffixes, s.Suffix)
	}

	assert.Equal(t, []string{"rain", "tmin", "tmax", "tavg", "relative_humidity", "wind", "Kdown_direct", "vpd", "Ldown"}, suffixes)
	assert.Equal(t, map[string]float64{
		"rain": 1, "tmin": 2, "tmax": 3, "tavg": 4, "relative_humidity": 5,
		"wind": 6, "Kdown_direct": 7, "vpd": 8, "Ldown": 9,
	}, got)
}

func TestSeriesFor_Legacy(t *testing.T) {
	day := sampleDay()
	got := make(map[string]float64)
	for _, s := range SeriesFor(SeriesMappingLegacy) {
		got[s.Suffix] = s.Value(day)
	}

	assert.Equal(t, day.Wind, got["Kdown_direct"])
	assert.Equal(t, day.VPD, got["Ldown"])
	assert.Equal(t, day.Rain, got["rain"])
	assert.Equal(t, day.VPD, got["vpd"])
}

func TestParseSeriesMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    SeriesMapping
		wantErr bool
	}{
		{"corrected", SeriesMappingCorrected, false},
		{"legacy", SeriesMappingLegacy, false},
		{"Legacy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeriesMapping(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRHESSysTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"midnight", time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), "2010 1 1 0"},
		{"no zero padding", time.Date(2009, time.October, 5, 7, 0, 0, 0, time.UTC), "2009 10 5 7"},
		{"late hour", time.Date(2012, time.December, 31, 23, 30, 0, 0, time.UTC), "2012 12 31 23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RHESSysTimestamp(tt.in))
		})
	}
}

func TestDailyResult_DateKey(t *testing.T) {
	d := DailyResult{Date: time.Date(2010, time.March, 4, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2010-03-04", d.DateKey())
}
