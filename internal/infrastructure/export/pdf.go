package export

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

type pdfColumn struct {
	key   string
	label string
	width float64 // mm
}

var pdfColumns = []pdfColumn{
	{"id", "ID", 15},
	{"created_at", "Date", 40},
	{"name", "Name", 70},
	{"age", "Age", 18},
	{"sex", "Sex", 22},
	{"schooling", "Schooling", 45},
	{"glucose_mgdl", "Glucose", 30},
	{"risk", "Risk", 37},
}

const (
	pdfRowHeight = 7.0
	pdfMargin    = 10.0
)

type pdfRenderer struct{}

func NewPDFRenderer() Renderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) Format() Format      { return FormatPDF }
func (r *pdfRenderer) ContentType() string { return "application/pdf" }
func (r *pdfRenderer) FileName() string    { return "patients.pdf" }

func (r *pdfRenderer) Render(w io.Writer, table *Table) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Patients", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if len(table.Rows) == 0 {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 12, "No records to export.", "", 1, "C", false, 0, "")
		return pdf.Output(w)
	}

	_, pageHeight := pdf.GetPageSize()
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(0x00, 0x4C, 0x70)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(128, 128, 128)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, pdfRowHeight, col.label, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	writeHeader()
	for i, row := range table.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			writeHeader()
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245) // whitesmoke
		} else {
			pdf.SetFillColor(0xEC, 0xFD, 0xF5)
		}
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, pdfRowHeight, tr(pdfCell(col.key, row[col.key])), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func pdfCell(key string, v interface{}) string {
	text := cellText(v)
	if key == "created_at" {
		if len(text) > 19 {
			text = text[:19]
		}
		text = strings.Replace(text, "T", " ", 1)
	}
	return text
}
