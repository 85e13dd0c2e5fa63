package loader

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"strings"
)

// CSVLoader emits one segment per data row, rendered as "header: value"
// lines so downstream search stays readable.
type CSVLoader struct{}

func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

func (l *CSVLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	segments := make([]Segment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var sb strings.Builder
		for i, value := range row {
			name := ""
			if i < len(header) {
				name = strings.TrimSpace(header[i])
			}
			if name == "" {
				name = "column_" + strconv.Itoa(i+1)
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(strings.TrimSpace(value))
			sb.WriteString("\n")
		}
		segments = append(segments, Segment{Text: sb.String(), Source: "csv_file"})
	}
	return segments, nil
}
