// Package rhessys writes and reads RHESSys daily climate files.
//
// A climate file holds one variable: a header line "Y M D H" giving the
// series start, then one value per day.
package rhessys

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

// Writer produces one climate file per series.
// It implements pipeline.SeriesLoader.
type Writer struct {
	fs     afero.Fs
	series []domain.Series
	logger *slog.Logger
}

// NewWriter creates a Writer for the given series on fs.
func NewWriter(fs afero.Fs, series []domain.Series, logger *slog.Logger) *Writer {
	return &Writer{fs: fs, series: series, logger: logger}
}

// FileName returns the climate file path for a project and series suffix.
func FileName(dir, project, suffix string) string {
	return filepath.Join(dir, project+"."+suffix)
}

// WriteSeries writes every series for days into dir, one file at a time.
// Each file is fully written and closed before the next is opened. On error,
// files already written are left in place.
func (w *Writer) WriteSeries(ctx context.Context, dir, project string, start time.Time, days []domain.DailyResult) ([]string, error) {
	header := domain.RHESSysTimestamp(start)
	written := make([]string, 0, len(w.series))

	w.logger.Info("writing results", "dir", dir, "project", project, "days", len(days))
	for _, s := range w.series {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := FileName(dir, project, s.Suffix)
		if err := w.writeFile(path, header, s, days); err != nil {
			return written, err
		}
		written = append(written, path)
		w.logger.Debug("wrote climate file", "path", path, "values", len(days))
	}
	return written, nil
}

func (w *Writer) writeFile(path, header string, s domain.Series, days []domain.DailyResult) (err error) {
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, d := range days {
		if _, err := bw.WriteString(FormatValue(s.Value(d)) + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// FormatValue renders a daily value with the fewest digits that parse back to
// the same float64, without exponent notation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
