// Command convert turns a HydroTerre forcing XML document into the nine
// daily RHESSys climate files.
//
// Usage:
//
//	convert <input_path> <output_directory> <project_name>
//
// Optional sinks and metric exports are configured through the environment;
// see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/forcing"
	kafkaadapter "github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/kafka"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/rhessys"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/config"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/observability"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/pipeline"
)

// Exit statuses. A usage error is not a failure.
const (
	exitOK               = 0
	exitFailure          = 1
	exitAggregationError = -1000
)

const usage = `Usage: convert <input_path> <output_directory> <project_name>

  input_path        HydroTerre forcing XML document
  output_directory  existing directory for the climate files
  project_name      prefix for <project_name>.rain, .tmin, ...
`

const exportTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if len(args) != 3 {
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	req := pipeline.Request{Input: args[0], OutputDir: args[1], Project: args[2]}

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(stdout, nil)).Error("failed to load config", "error", err)
		return exitFailure
	}

	logger := observability.NewLogger(cfg).With("app", "rhessys-forcing-convert")
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	var sinks []pipeline.ResultLoader

	if cfg.SQLitePath != "" {
		archive, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("open sqlite archive", "path", cfg.SQLitePath, "error", err)
			return exitFailure
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Error("sqlite archive close error", "error", err)
			}
		}()
		sinks = append(sinks, archive)
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
	}

	logger.Info("series mapping", "mapping", string(cfg.SeriesMapping), "sinks", len(sinks))
	if cfg.SeriesMapping == domain.SeriesMappingLegacy {
		logger.Warn("legacy series mapping: Kdown_direct holds daily wind and Ldown holds daily vpd")
	}

	converter := pipeline.New(
		forcing.NewReader(fs, logger),
		rhessys.NewWriter(fs, domain.SeriesFor(cfg.SeriesMapping), logger),
		cfg.SeriesMapping,
		logger,
		metrics,
		pipeline.WithSinks(sinks...),
	)

	_, runErr := converter.Run(ctx, req)
	exportMetrics(cfg, metrics, logger)

	if runErr != nil {
		logger.Error("conversion failed", "error", runErr)
	}
	return exitCode(runErr)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrAggregation):
		return exitAggregationError
	default:
		return exitFailure
	}
}

// exportMetrics writes the run's metrics to the configured destinations.
// Export failures are logged only.
func exportMetrics(cfg *config.Config, m *observability.Metrics, logger *slog.Logger) {
	if cfg.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics export failed", "error", err)
		}
	}
	if cfg.PushgatewayURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		if err := m.Push(ctx, cfg.PushgatewayURL, cfg.PushgatewayJob); err != nil {
			logger.Warn("metrics export failed", "error", err)
		}
	}
}
