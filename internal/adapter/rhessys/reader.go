package rhessys

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ClimateFile is the parsed content of one climate file.
type ClimateFile struct {
	Start  time.Time
	Values []float64
}

// ReadFile parses a climate file written by Writer.
func ReadFile(fs afero.Fs, path string) (ClimateFile, error) {
	f, err := fs.Open(path)
	if err != nil {
		return ClimateFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return ClimateFile{}, fmt.Errorf("read %s: %w", path, err)
		}
		return ClimateFile{}, fmt.Errorf("%s: missing header line", path)
	}
	start, err := ParseHeader(sc.Text())
	if err != nil {
		return ClimateFile{}, fmt.Errorf("%s: %w", path, err)
	}

	out := ClimateFile{Start: start}
	for line := 2; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ClimateFile{}, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out.Values = append(out.Values, v)
	}
	if err := sc.Err(); err != nil {
		return ClimateFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// ParseHeader parses a "Y M D H" header line in UTC.
func ParseHeader(line string) (time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return time.Time{}, fmt.Errorf("header %q: want 4 fields, got %d", line, len(fields))
	}

	var parts [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("header %q: %w", line, err)
		}
		parts[i] = n
	}
	if parts[1] < 1 || parts[1] > 12 || parts[2] < 1 || parts[2] > 31 || parts[3] < 0 || parts[3] > 23 {
		return time.Time{}, fmt.Errorf("header %q: date out of range", line)
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], 0, 0, 0, time.UTC), nil
}
