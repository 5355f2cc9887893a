// Package xlsx exchanges sheets with Excel workbooks. An exported worksheet
// has one row per non-empty cell with the columns Name, Contents and Value
// under a header row. Import reads Name and Contents back; Value is only
// there for people opening the file in Excel.
package xlsx

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hargabyte/sheet/internal/sheet"
)

// ErrBadHeader is returned by Import for worksheets that were not written
// by Export.
var ErrBadHeader = errors.New("worksheet header is not Name, Contents")

var header = []interface{}{"Name", "Contents", "Value"}

const defaultWorksheet = "Sheet1"

// Export writes s to a new workbook at path, in a worksheet called
// sheetName.
func Export(path, sheetName string, s *sheet.Spreadsheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName != defaultWorksheet {
		if err := f.SetSheetName(defaultWorksheet, sheetName); err != nil {
			return fmt.Errorf("naming worksheet %q: %w", sheetName, err)
		}
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, name := range s.NamesOfAllNonemptyCells() {
		contents, err := s.CellContents(name)
		if err != nil {
			return err
		}
		value, err := s.CellValue(name)
		if err != nil {
			return err
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{name, contents.String(), cellValue(value)}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing cell %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func cellValue(v sheet.Value) interface{} {
	switch v.Kind() {
	case sheet.ValueNumber:
		return v.Number()
	case sheet.ValueText:
		return v.Text()
	default:
		return v.String()
	}
}

// Import reads the entries of worksheet sheetName from the workbook at path.
// An empty sheetName reads the first worksheet.
func Import(path, sheetName string) ([]sheet.Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) < 2 || rows[0][0] != header[0] || rows[0][1] != header[1] {
		return nil, ErrBadHeader
	}

	entries := make([]sheet.Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		e := sheet.Entry{Name: row[0]}
		if len(row) > 1 {
			e.Contents = row[1]
		}
		entries = append(entries, e)
	}
	return entries, nil
}
