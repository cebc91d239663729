// Package sqlite archives daily forcing results in a SQLite database so
// repeated conversions of the same project can be queried and compared.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/insert-run.sql
var insertRunSQL string

//go:embed sql/upsert-day.sql
var upsertDaySQL string

//go:embed sql/get-days.sql
var getDaysSQL string

// Archive stores daily results keyed by (project, date). Re-running a
// conversion replaces the stored days.
// It implements pipeline.ResultLoader.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database file at path and applies the
// schema.
func Open(path string, logger *slog.Logger) (*Archive, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// One writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	a, err := New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// New wraps an open database and applies the schema.
func New(db *sql.DB, logger *slog.Logger) (*Archive, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Archive{db: db, logger: logger}, nil
}

// Name identifies the sink in logs.
func (a *Archive) Name() string {
	return "sqlite"
}

// LoadResults records the run and upserts every day in one transaction.
func (a *Archive) LoadResults(ctx context.Context, run domain.RunInfo, days []domain.DailyResult) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				a.logger.Error("rollback archive tx", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, insertRunSQL,
		run.ID, run.Project, run.Input, run.StartDate.UTC().Format(time.RFC3339), string(run.Mapping), len(days),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertDaySQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err = stmt.ExecContext(ctx,
			run.Project, d.DateKey(), run.ID, d.Samples,
			d.Rain, d.TMin, d.TMax, d.TAvg, d.RelativeHumidity, d.Wind, d.KdownDirect, d.VPD, d.Ldown,
		); err != nil {
			return fmt.Errorf("upsert %s %s: %w", run.Project, d.DateKey(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	a.logger.Info("archived daily results", "project", run.Project, "days", len(days))
	return nil
}

// Days returns the stored results for project in date order.
func (a *Archive) Days(ctx context.Context, project string) ([]domain.DailyResult, error) {
	rows, err := a.db.QueryContext(ctx, getDaysSQL, project)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			a.logger.Error("close daily rows", "error", err)
		}
	}()

	var out []domain.DailyResult
	for rows.Next() {
		var (
			d    domain.DailyResult
			date string
		)
		if err := rows.Scan(&date, &d.Samples, &d.Rain, &d.TMin, &d.TMax, &d.TAvg,
			&d.RelativeHumidity, &d.Wind, &d.KdownDirect, &d.VPD, &d.Ldown); err != nil {
			return nil, err
		}
		d.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close closes the database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file::memory:") {
		return path, nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
