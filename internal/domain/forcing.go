package domain

import (
	"fmt"
	"time"
)

// WindConversionFactor converts HydroTerre wind speed from m/day to m/s.
const WindConversionFactor = 1.15741e-5

// HoursPerDay is the expected number of hourly records in a complete day.
const HoursPerDay = 24

// dayBoundaryHour closes the current day group.
const dayBoundaryHour = 23

// HourlyObservation is one hour of catchment-averaged forcing values.
type HourlyObservation struct {
	Time          time.Time
	Precip        float64
	Temp          float64
	RH            float64
	Wind          float64 // m/s, already converted
	Radiation     float64
	VaporPressure float64
	Longwave      float64
}

// Forcing is the extracted content of one forcing document.
type Forcing struct {
	StartDate    time.Time
	Observations []HourlyObservation
}

// DailyResult holds the RHESSys climate values for one calendar day.
type DailyResult struct {
	Date             time.Time `json:"date"`
	Samples          int       `json:"samples"`
	Rain             float64   `json:"rain"`
	TMin             float64   `json:"tmin"`
	TMax             float64   `json:"tmax"`
	TAvg             float64   `json:"tavg"`
	RelativeHumidity float64   `json:"relative_humidity"`
	Wind             float64   `json:"wind"`
	KdownDirect      float64   `json:"Kdown_direct"`
	VPD              float64   `json:"vpd"`
	Ldown            float64   `json:"Ldown"`
}

// DateKey formats the result date as YYYY-MM-DD.
func (d DailyResult) DateKey() string {
	return d.Date.Format(time.DateOnly)
}

// RHESSysTimestamp formats t as the climate file header "Y M D H" without
// zero padding, e.g. "2010 1 1 0".
func RHESSysTimestamp(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

// RunInfo identifies one conversion run for sinks that record provenance.
type RunInfo struct {
	ID        string
	Project   string
	Input     string
	StartDate time.Time
	Mapping   SeriesMapping
}
