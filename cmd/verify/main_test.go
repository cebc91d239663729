package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/rhessys"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

var start = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

func writeProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	w := rhessys.NewWriter(fs, domain.SeriesFor(domain.SeriesMappingCorrected), slog.New(slog.DiscardHandler))
	days := []domain.DailyResult{
		{Date: start, Samples: 24, Rain: 1, TMin: -2, TMax: 4, TAvg: 1, RelativeHumidity: 0.5, KdownDirect: 100, VPD: 700, Ldown: 7000},
		{Date: start.AddDate(0, 0, 1), Samples: 24, Rain: 0, TMin: 0, TMax: 6, TAvg: 3, RelativeHumidity: 0.4, KdownDirect: 90, VPD: 650, Ldown: 6900},
	}
	_, err := w.WriteSeries(context.Background(), "/out", "p", start, days)
	require.NoError(t, err)
	return fs
}

func TestRun_Passes(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, run(writeProject(t), "/out", "p", &out))
	assert.Contains(t, out.String(), "All checks passed.")
	assert.Contains(t, out.String(), "Days: 2 starting 2010 1 1 0")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, fs afero.Fs)
		wantErr string
	}{
		{
			name:    "missing file",
			mutate:  func(t *testing.T, fs afero.Fs) { require.NoError(t, fs.Remove("/out/p.vpd")) },
			wantErr: "vpd: open /out/p.vpd",
		},
		{
			name: "header mismatch",
			mutate: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/out/p.wind", []byte("2010 1 2 0\n0\n0\n"), 0o644))
			},
			wantErr: `wind: header "2010 1 2 0"`,
		},
		{
			name: "short file",
			mutate: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/out/p.Ldown", []byte("2010 1 1 0\n7000\n"), 0o644))
			},
			wantErr: "Ldown: 1 days, rain has 2",
		},
		{
			name: "tavg above tmax",
			mutate: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/out/p.tavg", []byte("2010 1 1 0\n1\n9\n"), 0o644))
			},
			wantErr: "day 2: want tmin <= tavg <= tmax, got 0, 9, 6",
		},
		{
			name: "negative rain",
			mutate: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, afero.WriteFile(fs, "/out/p.rain", []byte("2010 1 1 0\n-1\n0\n"), 0o644))
			},
			wantErr: "day 1: negative rain -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writeProject(t)
			tt.mutate(t, fs)

			var out bytes.Buffer
			assert.Equal(t, 1, run(fs, "/out", "p", &out))
			assert.Contains(t, out.String(), tt.wantErr)
			assert.Contains(t, out.String(), "Verification FAILED.")
		})
	}
}
