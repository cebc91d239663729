// Package domain models hourly HydroTerre forcing data and its daily RHESSys
// climate aggregates.
//
// # Data Source
//
// HydroTerre forcing files are XML documents holding the full hourly time
// series for one HUC-12 catchment. Each hourly record carries values that are
// already averaged over the forcing cells inside the catchment:
//
//	DateTime    record timestamp, e.g. "2010-01-01T23:00:00"
//	Precip_Avg  precipitation depth
//	Temp_Avg    air temperature, °C
//	RH_Avg      relative humidity, fraction 0–1 (not enforced)
//	Wind_Avg    wind speed in m/day
//	RN_Avg      net radiation, used as the direct shortwave proxy
//	VP_Avg      vapor pressure
//	LW_Avg      incoming longwave radiation
//
// Wind is converted to m/s at extraction time by multiplying with
// [WindConversionFactor]. Nothing else is unit-converted.
//
// The inputs block of the document carries a Start_Date that becomes the
// header line of every RHESSys climate file.
//
// # Day Boundaries
//
// Records are consumed in document order and never re-sorted. A day closes on
// the first record whose hour-of-day is 23, whatever the number of records
// buffered since the previous close. A closed group with fewer or more than 24
// hours still produces a [DailyResult] (aggregated over the hours present) and
// an incomplete_day [Warning]. Hours buffered after the last hour-23 record
// are dropped with a trailing_hours_dropped warning.
//
// Daily statistics:
//
//	rain               sum of Precip_Avg
//	tmin, tmax, tavg   min, max, mean of Temp_Avg
//	relative_humidity  mean of RH_Avg
//	wind               mean of converted Wind_Avg
//	Kdown_direct       mean of RN_Avg
//	vpd                mean of VP_Avg
//	Ldown              sum of LW_Avg
//
// # Output Series
//
// RHESSys reads one file per variable. [SeriesFor] returns the file suffix and
// value selector for each variable. The legacy mapping reproduces output of the
// original HydroTerre converter, which wrote the wind series into Kdown_direct
// and the vpd series into Ldown; see [SeriesMappingLegacy].
package domain
