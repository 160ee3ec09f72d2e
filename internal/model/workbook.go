package model

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "summary"

// WriteWorkbook saves the summary plus one sheet per table into an xlsx
// file. Sheets other than the summary are written in name order.
func WriteWorkbook(path string, s *Summary, tables map[string]dataframe.DataFrame) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	rows := [][]any{
		{"metric", "value"},
		{"train_accuracy", s.TrainAccuracy},
		{"test_accuracy", s.TestAccuracy},
		{"best_c", s.BestC},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", summarySheet, cell, err)
			}
		}
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, tables[name]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, df dataframe.DataFrame) error {
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, df.Col(colName).Val(rowIdx)); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
