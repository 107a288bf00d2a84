package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ipccli/internal/config"
	"ipccli/internal/errors"
	"ipccli/pkg/contracts/domain"
)

// workbookSheets maps sheet names to the accumulated latest wide tables, in
// workbook order.
var workbookSheets = []string{"National", "Level 1", "Area"}

// WriteWorkbook writes the accumulated latest wide tables into one Excel
// workbook, one sheet per table, each with the same header and HXL tag rows
// as the CSVs.
func WriteWorkbook(path string, bundle *domain.Bundle, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("writing workbook", slog.String("path", path))

	tables := map[string][]*domain.Row{
		"National": bundle.Latest.Country.Wide,
		"Level 1":  bundle.Latest.Group.Wide,
		"Area":     bundle.Latest.Area.Wide,
	}
	tags := config.WideHXLTags()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range workbookSheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return errors.NewStorageError("failed to name workbook sheet", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.NewStorageError("failed to add workbook sheet", err)
			}
		}
		if err := writeSheet(f, sheet, tags, tables[sheet]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, tags map[string]string, rows []*domain.Row) error {
	headers := domain.UnionKeys(rows)

	cells := make([]any, len(headers))
	for i, header := range headers {
		cells[i] = header
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return errors.NewStorageError("failed to write workbook headers", err)
	}

	for i, header := range headers {
		cells[i] = tags[header]
	}
	if err := f.SetSheetRow(sheet, "A2", &cells); err != nil {
		return errors.NewStorageError("failed to write workbook tag row", err)
	}

	for n, row := range rows {
		for i, header := range headers {
			cells[i] = row.Value(header)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+3)
		if err != nil {
			return errors.NewStorageError("failed to address workbook cell", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.NewStorageError("failed to write workbook row", err)
		}
	}
	return nil
}
