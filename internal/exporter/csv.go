package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"ipccli/internal/errors"
	"ipccli/pkg/contracts/domain"
)

// CSVWriter writes HXL-tagged CSV tables into the reports directory.
type CSVWriter struct {
	outDir string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at outDir.
func NewCSVWriter(outDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outDir: outDir, logger: logger}
}

// WriteTable writes rows under filename with the given headers, an HXL tag
// row beneath them, and one record per row. Columns without a tag get an
// empty tag cell; rows missing a column get an empty value cell. Returns the
// written path.
func (w *CSVWriter) WriteTable(filename string, headers []string, tags map[string]string, rows []*domain.Row) (string, error) {
	path := filepath.Join(w.outDir, filename)

	w.logger.Info("writing table",
		slog.String("filename", filename),
		slog.Int("rows", len(rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.NewStorageError("failed to create reports directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to write headers to %s", path), err)
	}

	tagRow := make([]string, len(headers))
	for i, header := range headers {
		tagRow[i] = tags[header]
	}
	if err := writer.Write(tagRow); err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to write tag row to %s", path), err)
	}

	record := make([]string, len(headers))
	for i, row := range rows {
		for j, header := range headers {
			record[j] = formatCell(row.Value(header))
		}
		if err := writer.Write(record); err != nil {
			return "", errors.NewStorageError(
				fmt.Sprintf("failed to write record %d to %s", i, path), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}
	return path, nil
}

// formatCell renders one row value as a CSV cell. Nil stays an empty cell;
// numbers keep their shortest exact representation.
func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
