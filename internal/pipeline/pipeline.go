package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/observability"
)

// ForcingExtractor loads a forcing document.
type ForcingExtractor interface {
	Extract(ctx context.Context, path string) (domain.Forcing, error)
}

// SeriesLoader writes the RHESSys climate files and returns their paths in
// write order.
type SeriesLoader interface {
	WriteSeries(ctx context.Context, dir, project string, start time.Time, days []domain.DailyResult) ([]string, error)
}

// ResultLoader is an additional destination for daily results.
type ResultLoader interface {
	Name() string
	LoadResults(ctx context.Context, run domain.RunInfo, days []domain.DailyResult) error
}

// Request names one conversion.
type Request struct {
	Input     string
	OutputDir string
	Project   string
}

// Summary reports what a run produced.
type Summary struct {
	RunID    string
	Hours    int
	Days     int
	Warnings []domain.Warning
	Files    []string
	Started  time.Time
	Finished time.Time
}

// Elapsed is the wall time between start and finish.
func (s Summary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(cv *Converter) { cv.clock = c }
}

// WithSinks adds result loaders that run after the climate files are written.
func WithSinks(sinks ...ResultLoader) Option {
	return func(cv *Converter) { cv.sinks = append(cv.sinks, sinks...) }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(cv *Converter) { cv.newID = func() string { return id } }
}

// Converter runs extract, aggregate and load for one forcing document.
type Converter struct {
	extractor ForcingExtractor
	writer    SeriesLoader
	sinks     []ResultLoader
	mapping   domain.SeriesMapping
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	newID     func() string
}

// New creates a Converter. mapping is recorded with each run for sinks that
// keep provenance; the writer already holds the series it writes.
func New(e ForcingExtractor, w SeriesLoader, mapping domain.SeriesMapping, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Converter {
	c := &Converter{
		extractor: e,
		writer:    w,
		mapping:   mapping,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run converts req.Input into climate files under req.OutputDir. Data-quality
// warnings are logged and returned in the summary; any error stops the run.
// Aggregation failures wrap domain.ErrAggregation.
func (c *Converter) Run(ctx context.Context, req Request) (Summary, error) {
	sum := Summary{RunID: c.newID(), Started: c.clock.Now()}
	logger := c.logger.With("run_id", sum.RunID, "project", req.Project)
	logger.Info("conversion started", "start_time", sum.Started.Format(time.DateTime), "input", req.Input)

	forcing, err := c.extractor.Extract(ctx, req.Input)
	if err != nil {
		return sum, fmt.Errorf("extract: %w", err)
	}
	sum.Hours = len(forcing.Observations)
	c.metrics.HourlyRecords.Add(float64(sum.Hours))

	logger.Info("averaging hourly data to daily data", "records", sum.Hours)
	agg, err := domain.Aggregate(forcing.Observations)
	if err != nil {
		return sum, fmt.Errorf("aggregate: %w", err)
	}
	sum.Days = len(agg.Days)
	sum.Warnings = agg.Warnings
	for _, w := range agg.Warnings {
		logger.Warn(w.String(), "kind", string(w.Kind))
		c.metrics.Warnings.WithLabelValues(string(w.Kind)).Inc()
	}
	logger.Info("finished averaging", "days", sum.Days)

	files, err := c.writer.WriteSeries(ctx, req.OutputDir, req.Project, forcing.StartDate, agg.Days)
	sum.Files = files
	c.metrics.FilesWritten.Add(float64(len(files)))
	if err != nil {
		return sum, fmt.Errorf("write climate files: %w", err)
	}
	c.metrics.DaysWritten.Add(float64(sum.Days))

	run := domain.RunInfo{
		ID:        sum.RunID,
		Project:   req.Project,
		Input:     req.Input,
		StartDate: forcing.StartDate,
		Mapping:   c.mapping,
	}
	for _, s := range c.sinks {
		if err := s.LoadResults(ctx, run, agg.Days); err != nil {
			c.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
			return sum, fmt.Errorf("load %s: %w", s.Name(), err)
		}
	}

	sum.Finished = c.clock.Now()
	c.metrics.RunDuration.Set(sum.Elapsed().Seconds())
	c.metrics.LastSuccessSeconds.Set(float64(sum.Finished.Unix()))
	logger.Info("conversion finished",
		"end_time", sum.Finished.Format(time.DateTime),
		"elapsed_seconds", sum.Elapsed().Seconds(),
		"files", len(sum.Files),
		"warnings", len(sum.Warnings),
	)
	return sum, nil
}
