// Command verify checks a set of RHESSys climate files written by convert:
// every series present, identical headers, equal day counts, and physically
// ordered temperatures.
//
// Usage:
//
//	verify <output_directory> <project_name>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/adapter/rhessys"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: verify <output_directory> <project_name>")
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(afero.NewOsFs(), flag.Arg(0), flag.Arg(1), os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(fs afero.Fs, dir, project string, out io.Writer) int {
	fmt.Fprintln(out, "=== RHESSys Climate File Verification ===")
	fmt.Fprintln(out)

	files, load := loadSeries(fs, dir, project)
	phases := []*phase{load}
	if load.passed() {
		phases = append(phases,
			validateHeaders(files),
			validateDayCounts(files),
			validateBounds(files),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}

	if rain, ok := files["rain"]; ok {
		fmt.Fprintf(out, "\nDays: %d starting %s\n", len(rain.Values), domain.RHESSysTimestamp(rain.Start))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(out, "\nVerification FAILED.")
	return 1
}

// suffixes lists the series in file order.
func suffixes() []string {
	series := domain.SeriesFor(domain.SeriesMappingCorrected)
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.Suffix
	}
	return out
}

func loadSeries(fs afero.Fs, dir, project string) (map[string]rhessys.ClimateFile, *phase) {
	p := &phase{name: "Series files"}
	files := make(map[string]rhessys.ClimateFile)
	for _, suffix := range suffixes() {
		cf, err := rhessys.ReadFile(fs, rhessys.FileName(dir, project, suffix))
		if err != nil {
			p.errorf("%s: %v", suffix, err)
			continue
		}
		files[suffix] = cf
	}
	return files, p
}

func validateHeaders(files map[string]rhessys.ClimateFile) *phase {
	p := &phase{name: "Header consistency"}
	want := files["rain"].Start
	for _, suffix := range suffixes() {
		if got := files[suffix].Start; !got.Equal(want) {
			p.errorf("%s: header %q, rain has %q", suffix, domain.RHESSysTimestamp(got), domain.RHESSysTimestamp(want))
		}
	}
	return p
}

func validateDayCounts(files map[string]rhessys.ClimateFile) *phase {
	p := &phase{name: "Day counts"}
	want := len(files["rain"].Values)
	for _, suffix := range suffixes() {
		if got := len(files[suffix].Values); got != want {
			p.errorf("%s: %d days, rain has %d", suffix, got, want)
		}
	}
	return p
}

func validateBounds(files map[string]rhessys.ClimateFile) *phase {
	p := &phase{name: "Physical bounds"}
	rain, tmin, tmax, tavg := files["rain"].Values, files["tmin"].Values, files["tmax"].Values, files["tavg"].Values

	for i, v := range rain {
		if v < 0 {
			p.errorf("day %d: negative rain %g", i+1, v)
		}
	}
	n := min(len(tmin), len(tmax), len(tavg))
	for i := range n {
		if tmin[i] > tavg[i] || tavg[i] > tmax[i] {
			p.errorf("day %d: want tmin <= tavg <= tmax, got %g, %g, %g", i+1, tmin[i], tavg[i], tmax[i])
		}
	}
	return p
}
