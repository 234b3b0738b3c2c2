package export

import "strings"

// Format names a dataset rendering.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Renderer turns a dataset into a downloadable file.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// RendererFor resolves a format name case-insensitively.
func RendererFor(format string) (Renderer, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatCSV, "":
		return NewCSVExporter(), true
	case FormatXLSX:
		return NewXLSXExporter(), true
	case FormatPDF:
		return NewPDFExporter(), true
	default:
		return nil, false
	}
}
