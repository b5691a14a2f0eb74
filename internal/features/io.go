package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Metadata columns preceding the feature columns in an engineered CSV.
var metaColumns = []string{
	"name", "team", "position", "season", "week",
	"actual_points", "projected_points",
	"actual_rank", "projected_rank",
	"performance_diff", "label",
}

// WriteLabeledCSV persists labeled rows to a delimited file: metadata
// columns first, then the feature columns in the given order.
func WriteLabeledCSV(path string, rows []contracts.LabeledRow, featureNames []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append(append([]string{}, metaColumns...), featureNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Name, r.Team, r.Position,
			strconv.Itoa(r.Season), strconv.Itoa(r.Week),
			formatFloat(r.ActualPoints), formatFloat(r.ProjectedPoints),
			strconv.Itoa(r.ActualRank), strconv.Itoa(r.ProjectedRank),
			formatFloat(r.PerformanceDiff), strconv.Itoa(r.Label),
		}
		for _, name := range featureNames {
			record = append(record, formatFloat(r.Features[name]))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadLabeledCSV loads labeled rows from a file written by WriteLabeledCSV.
// It returns the rows and the feature column order.
func ReadLabeledCSV(path string) ([]contracts.LabeledRow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, nil, &contracts.SchemaError{Path: path, Reason: "empty or unreadable header"}
	}
	if len(header) < len(metaColumns) {
		return nil, nil, &contracts.SchemaError{Path: path, Reason: "not an engineered dataset"}
	}
	for i, want := range metaColumns {
		if header[i] != want {
			return nil, nil, &contracts.SchemaError{Path: path, Column: want, Reason: "required column absent"}
		}
	}
	featureNames := header[len(metaColumns):]

	var rows []contracts.LabeledRow
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		row, err := parseLabeledRecord(record, featureNames, path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}

	return rows, featureNames, nil
}

func parseLabeledRecord(record, featureNames []string, path string) (contracts.LabeledRow, error) {
	var row contracts.LabeledRow
	if len(record) != len(metaColumns)+len(featureNames) {
		return row, fmt.Errorf("expected %d fields, got %d", len(metaColumns)+len(featureNames), len(record))
	}

	row.Name = record[0]
	row.Team = record[1]
	row.Position = record[2]

	var err error
	if row.Season, err = strconv.Atoi(record[3]); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "season", Reason: err.Error()}
	}
	if row.Week, err = strconv.Atoi(record[4]); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "week", Reason: err.Error()}
	}
	if row.ActualPoints, err = strconv.ParseFloat(record[5], 64); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "actual_points", Reason: err.Error()}
	}
	if row.ProjectedPoints, err = strconv.ParseFloat(record[6], 64); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "projected_points", Reason: err.Error()}
	}
	if row.ActualRank, err = strconv.Atoi(record[7]); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "actual_rank", Reason: err.Error()}
	}
	if row.ProjectedRank, err = strconv.Atoi(record[8]); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "projected_rank", Reason: err.Error()}
	}
	if row.PerformanceDiff, err = strconv.ParseFloat(record[9], 64); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "performance_diff", Reason: err.Error()}
	}
	if row.Label, err = strconv.Atoi(record[10]); err != nil {
		return row, &contracts.SchemaError{Path: path, Column: "label", Reason: err.Error()}
	}

	row.Features = make(map[string]float64, len(featureNames))
	for i, name := range featureNames {
		v, err := strconv.ParseFloat(record[len(metaColumns)+i], 64)
		if err != nil {
			return row, &contracts.SchemaError{Path: path, Column: name, Reason: err.Error()}
		}
		row.Features[name] = v
	}

	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
