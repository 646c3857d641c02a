package export

import (
	"fmt"
	"strings"
	"time"
)

// Format is a handbook file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts pdf or xlsx.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", value)
	}
}

// ContentType is the media type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Render produces the handbook in format.
func Render(ref Reference, format Format, generated time.Time) ([]byte, error) {
	switch format {
	case FormatPDF:
		return BuildPDF(ref, generated)
	case FormatXLSX:
		return BuildXLSX(ref, generated)
	default:
		return nil, fmt.Errorf("export: unknown format %q", format)
	}
}
