// Package xlsx reads .xlsx workbooks into raw cell maps and writes computed
// cells back into them.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/gy/internal/sheet"
)

// Extension is the only accepted workbook file extension.
const Extension = "xlsx"

var (
	// ErrInvalidFileType is returned for paths that do not end in .xlsx.
	ErrInvalidFileType = errors.New("文件类型错误")
	// ErrFileNotFound is returned when the workbook path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrMissingSheet is returned when a workbook has fewer sheets than required.
	ErrMissingSheet = errors.New("missing sheet")
)

// Workbook is a parsed .xlsx file: sheet names in workbook order and the raw
// cells of each sheet.
type Workbook struct {
	Path       string               `json:"path,omitempty"`
	SheetNames []string             `json:"sheet_names"`
	Sheets     map[string]sheet.Raw `json:"sheets"`
}

// CheckPath rejects paths whose extension is not xlsx, ignoring case.
func CheckPath(path string) error {
	dot := strings.LastIndex(path, ".")
	if dot < 0 || strings.ToLower(path[dot+1:]) != Extension {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, path)
	}
	return nil
}

// ReadFile reads an .xlsx file and returns its raw cells.
func ReadFile(path string) (*Workbook, error) {
	if err := CheckPath(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (check that the path is correct)", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s, is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	wb, err := readWorkbook(f)
	if err != nil {
		return nil, err
	}
	wb.Path = path
	return wb, nil
}

// ReadBytes reads an .xlsx file from a byte slice.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{Sheets: make(map[string]sheet.Raw)}

	for _, name := range f.GetSheetList() {
		raw, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = raw
	}

	return wb, nil
}

func readSheet(f *excelize.File, name string) (sheet.Raw, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	raw := make(sheet.Raw)
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, cellName)
			if err != nil {
				return nil, err
			}
			raw[cellName] = parseValue(value, typ)
		}
	}

	return raw, nil
}

// parseValue keeps text cells as strings and turns everything that parses
// as a number into float64.
func parseValue(s string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Require returns an error unless the workbook has at least n sheets.
func (wb *Workbook) Require(n int) error {
	if len(wb.SheetNames) < n {
		return fmt.Errorf("%w: %s has %d sheet(s), need %d", ErrMissingSheet, wb.describe(), len(wb.SheetNames), n)
	}
	return nil
}

// SheetAt returns the name and cells of the i-th sheet (0-based).
func (wb *Workbook) SheetAt(i int) (string, sheet.Raw, error) {
	if err := wb.Require(i + 1); err != nil {
		return "", nil, err
	}
	name := wb.SheetNames[i]
	return name, wb.Sheets[name], nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (sheet.Raw, error) {
	if raw, ok := wb.Sheets[name]; ok {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %q not found, available sheets: %v", ErrMissingSheet, name, wb.SheetNames)
}

func (wb *Workbook) describe() string {
	if wb.Path == "" {
		return "workbook"
	}
	return wb.Path
}
