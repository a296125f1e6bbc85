// Package output provides utilities for formatting and exporting longevity sweeps.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/capital-longevity/pkg/format"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, series ...sweep.Series) error {
	for i, s := range series {
		if _, err := fmt.Fprintf(w, "--- Years capital lasts by %s ---\n", s.Variable); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-22s | Years\n", s.Variable.AxisTitle()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-22s | _____\n", "______________________"); err != nil {
			return err
		}
		for _, point := range s.Points {
			if _, err := fmt.Fprintf(w, "%-22s | %s\n", format.WholeCurrency(point.X), format.Years(point.Result)); err != nil {
				return err
			}
		}
		if len(series) > 1 && i < len(series)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat writes comma-separated values with one row per point.
func CsvFormat(w io.Writer, series ...sweep.Series) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"variable", "value", "state", "years"}); err != nil {
		return err
	}
	for _, s := range series {
		for _, point := range s.Points {
			years := ""
			if point.Result.IsFinite() {
				years = strconv.FormatFloat(point.Result.Years, 'f', 4, 64)
			}
			record := []string{
				string(s.Variable),
				strconv.FormatFloat(point.X, 'f', -1, 64),
				point.Result.State.String(),
				years,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(series ...sweep.Series) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, series...); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the series as an indented JSON array.
func JSONFormat(w io.Writer, series ...sweep.Series) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if series == nil {
		series = []sweep.Series{}
	}
	return encoder.Encode(series)
}
