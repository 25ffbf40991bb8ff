// pkg/loader/xlsx.go
package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// ReadXLSXFile reads one sheet of a workbook; an empty sheet name selects
// the first sheet
func ReadXLSXFile(path, sheet string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// ReadXLSX reads one sheet of a workbook from r
func ReadXLSX(r io.Reader, sheet string) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (*model.Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	return buildTable(rows[0], rows[1:])
}
