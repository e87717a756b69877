package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// Output formats for validate.
const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

// jsonItem is the JSON form of one batch item.
type jsonItem struct {
	Source string                   `json:"source"`
	Status string                   `json:"status"`
	Result *domain.ValidationResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func writeJSON(w io.Writer, items []domain.BatchItem) error {
	out := make([]jsonItem, len(items))
	for i, item := range items {
		out[i] = jsonItem{
			Source: item.Source,
			Status: statusOf(item),
			Result: item.Result,
		}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

var csvHeader = []string{
	"source", "status", "profile", "version", "resolution",
	"minimum_missing", "minimum_error",
	"recommended_missing", "recommended_error",
	"optional_missing", "optional_error",
	"extra_properties", "error_count", "date_warnings", "error",
}

// writeCSV writes one row per document. List cells are joined with ';'.
func writeCSV(w io.Writer, items []domain.BatchItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(csvRow(item)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(item domain.BatchItem) []string {
	row := make([]string, len(csvHeader))
	row[0] = item.Source
	row[1] = statusOf(item)
	if item.Err != nil {
		row[len(row)-1] = item.Err.Error()
	}
	r := item.Result
	if r == nil {
		return row
	}
	row[2] = r.Profile.Name
	row[3] = r.Profile.Version
	row[4] = string(r.Profile.Resolution)
	if rep := r.Report; rep != nil {
		row[5] = strings.Join(rep.Minimum.Missing, ";")
		row[6] = strings.Join(rep.Minimum.Error, ";")
		row[7] = strings.Join(rep.Recommended.Missing, ";")
		row[8] = strings.Join(rep.Recommended.Error, ";")
		row[9] = strings.Join(rep.Optional.Missing, ";")
		row[10] = strings.Join(rep.Optional.Error, ";")
		row[11] = strings.Join(rep.ExtraProperties, ";")
	}
	row[12] = strconv.Itoa(len(r.ErrorMessages))
	row[13] = strings.Join(r.DateWarnings, ";")
	return row
}
