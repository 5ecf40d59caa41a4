// Package export renders the patient table to downloadable artifacts and
// publishes them to sinks.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Table is the full row list handed to renderers: an ordered header and one
// column-name-to-value map per row.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

type Renderer interface {
	Format() Format
	ContentType() string
	FileName() string
	Render(w io.Writer, table *Table) error
}

// NewRenderer returns the renderer for a format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return NewCSVRenderer(), nil
	case FormatXLSX:
		return NewXLSXRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewRenderers builds renderers for the named formats, in order.
func NewRenderers(names []string) ([]Renderer, error) {
	renderers := make([]Renderer, 0, len(names))
	for _, name := range names {
		format, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		r, err := NewRenderer(format)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}
	return renderers, nil
}

// cellText formats a table value for text-based outputs.
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
