package xlsxstyle

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used for exported reports.
const DefaultSheet = "Samples"

// HeaderRows is the number of header rows BuildWorkbook writes.
const HeaderRows = 1

// BuildWorkbook writes a header row followed by one sheet row per data row.
// Data row i lands on sheet row i+1+HeaderRows. Rows may be shorter than the
// header; missing cells stay blank.
func BuildWorkbook(sheet string, header []string, rows [][]string) (*Workbook, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+1+HeaderRows, row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	wb, err := NewWorkbook(f, sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	// The range is what was just written.
	wb.SetMaxCells(0)
	return wb, nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, ref, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNumber, err)
	}
	return nil
}
