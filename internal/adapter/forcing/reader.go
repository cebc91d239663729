// Package forcing reads HydroTerre forcing XML documents into hourly
// observations.
//
// Elements are located by name rather than by position. The inputs block is
// the element holding Start_Date. Every child of Forcing_List is one hourly
// record, and each record carries its catchment-averaged values in a
// HUC12_Values block. A record without that block, or a block missing any
// value field, fails the parse. One spatial unit per document is assumed.
package forcing

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/afero"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

// Field names used by HydroTerre forcing documents.
const (
	FieldStartDate   = "Start_Date"
	FieldForcingList = "Forcing_List"
	FieldValues      = "HUC12_Values"
	FieldDateTime    = "DateTime"
	FieldPrecip      = "Precip_Avg"
	FieldTemp        = "Temp_Avg"
	FieldRH          = "RH_Avg"
	FieldWind        = "Wind_Avg"
	FieldRN          = "RN_Avg"
	FieldVP          = "VP_Avg"
	FieldLW          = "LW_Avg"
)

// Reader loads forcing documents from a filesystem.
// It implements pipeline.ForcingExtractor.
type Reader struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewReader creates a Reader over fs. Pass afero.NewOsFs() for real files.
func NewReader(fs afero.Fs, logger *slog.Logger) *Reader {
	return &Reader{fs: fs, logger: logger}
}

// Extract reads and parses the forcing document at path. The whole document
// is held in memory.
func (r *Reader) Extract(_ context.Context, path string) (domain.Forcing, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return domain.Forcing{}, fmt.Errorf("open forcing file: %w", err)
	}
	defer f.Close()

	r.logger.Info("loading forcing data", "path", path)
	forcing, err := Parse(f)
	if err != nil {
		return domain.Forcing{}, fmt.Errorf("%s: %w", path, err)
	}
	r.logger.Info("finished loading forcing data",
		"records", len(forcing.Observations),
		"start_date", forcing.StartDate.Format(time.DateTime),
	)
	return forcing, nil
}

// element is a generic XML node.
type element struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []element `xml:",any"`
}

func (e *element) child(name string) (*element, bool) {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i], true
		}
	}
	return nil, false
}

func (e *element) text() string {
	return strings.TrimSpace(e.Content)
}

// Parse decodes a forcing document. Any missing or malformed field fails the
// whole parse.
func Parse(r io.Reader) (domain.Forcing, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return domain.Forcing{}, fmt.Errorf("decode forcing xml: %w", err)
	}

	inputs, ok := findWithChild(&root, FieldStartDate)
	if !ok {
		return domain.Forcing{}, &MissingFieldError{Where: "inputs", Field: FieldStartDate}
	}
	start, err := parseTime("inputs", FieldStartDate, inputs)
	if err != nil {
		return domain.Forcing{}, err
	}

	list, ok := findNamed(&root, FieldForcingList)
	if !ok {
		return domain.Forcing{}, &MissingFieldError{Where: "outputs", Field: FieldForcingList}
	}

	observations := make([]domain.HourlyObservation, 0, len(list.Children))
	for i := range list.Children {
		where := fmt.Sprintf("record %d", i)
		block, ok := list.Children[i].child(FieldValues)
		if !ok {
			return domain.Forcing{}, &MissingFieldError{Where: where, Field: FieldValues}
		}
		obs, err := parseObservation(where, block)
		if err != nil {
			return domain.Forcing{}, err
		}
		observations = append(observations, obs)
	}

	return domain.Forcing{StartDate: start, Observations: observations}, nil
}

// findWithChild returns the first element, in document order, that has a
// direct child called name.
func findWithChild(e *element, name string) (*element, bool) {
	if _, ok := e.child(name); ok {
		return e, true
	}
	for i := range e.Children {
		if found, ok := findWithChild(&e.Children[i], name); ok {
			return found, true
		}
	}
	return nil, false
}

// findNamed returns the first element called name, in document order.
func findNamed(e *element, name string) (*element, bool) {
	if e.XMLName.Local == name {
		return e, true
	}
	for i := range e.Children {
		if found, ok := findNamed(&e.Children[i], name); ok {
			return found, true
		}
	}
	return nil, false
}

func parseObservation(where string, block *element) (domain.HourlyObservation, error) {
	ts, err := parseTime(where, FieldDateTime, block)
	if err != nil {
		return domain.HourlyObservation{}, err
	}

	values := make(map[string]float64, 7)
	for _, name := range []string{FieldPrecip, FieldTemp, FieldRH, FieldWind, FieldRN, FieldVP, FieldLW} {
		v, err := parseFloat(where, name, block)
		if err != nil {
			return domain.HourlyObservation{}, err
		}
		values[name] = v
	}

	return domain.HourlyObservation{
		Time:          ts,
		Precip:        values[FieldPrecip],
		Temp:          values[FieldTemp],
		RH:            values[FieldRH],
		Wind:          values[FieldWind] * domain.WindConversionFactor,
		Radiation:     values[FieldRN],
		VaporPressure: values[FieldVP],
		Longwave:      values[FieldLW],
	}, nil
}

func parseFloat(where, field string, parent *element) (float64, error) {
	el, ok := parent.child(field)
	if !ok {
		return 0, &MissingFieldError{Where: where, Field: field}
	}
	v, err := strconv.ParseFloat(el.text(), 64)
	if err != nil {
		return 0, &FieldError{Where: where, Field: field, Value: el.text(), Err: err}
	}
	return v, nil
}

func parseTime(where, field string, parent *element) (time.Time, error) {
	el, ok := parent.child(field)
	if !ok {
		return time.Time{}, &MissingFieldError{Where: where, Field: field}
	}
	t, err := dateparse.ParseAny(el.text())
	if err != nil {
		return time.Time{}, &FieldError{Where: where, Field: field, Value: el.text(), Err: err}
	}
	return t, nil
}
