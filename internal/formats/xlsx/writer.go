package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/gy/internal/sheet"
)

// WriteFile creates a new .xlsx file from the given workbook data.
func WriteFile(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range wb.SheetNames {
		sheetName := name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		if err := setCells(f, sheetName, wb.Sheets[name]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}

// SaveCells copies the workbook at src to dst with cells written onto
// sheetName. Every other sheet, style and cell of src is kept as is.
func SaveCells(src, dst, sheetName string, cells sheet.Raw) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return fmt.Errorf("%w: %q not found in %s", ErrMissingSheet, sheetName, src)
	}

	if err := setCells(f, sheetName, cells); err != nil {
		return err
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("could not save %s: %w", dst, err)
	}

	return nil
}

func setCells(f *excelize.File, sheetName string, cells sheet.Raw) error {
	keys := make([]string, 0, len(cells))
	for key := range cells {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := f.SetCellValue(sheetName, key, cells[key]); err != nil {
			return fmt.Errorf("could not set cell %s: %w", key, err)
		}
	}
	return nil
}
