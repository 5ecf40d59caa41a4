package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheet       = "patients"
	xlsxColumnWidth = 14
)

type xlsxRenderer struct{}

func NewXLSXRenderer() Renderer {
	return &xlsxRenderer{}
}

func (r *xlsxRenderer) Format() Format { return FormatXLSX }
func (r *xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *xlsxRenderer) FileName() string { return "patients.xlsx" }

func (r *xlsxRenderer) Render(w io.Writer, table *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for j, col := range table.Columns {
			values[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(table.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(xlsxSheet, "A", last, xlsxColumnWidth); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	return f.Write(w)
}
