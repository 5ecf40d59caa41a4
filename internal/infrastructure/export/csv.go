package export

import (
	"encoding/csv"
	"io"
)

type csvRenderer struct{}

func NewCSVRenderer() Renderer {
	return &csvRenderer{}
}

func (r *csvRenderer) Format() Format      { return FormatCSV }
func (r *csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (r *csvRenderer) FileName() string    { return "patients.csv" }

func (r *csvRenderer) Render(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Columns); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = cellText(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
