package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the reference handbook as an A4 PDF.
func BuildPDF(ref Reference, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(ref.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s %s", ref.Title, ref.Version)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	for _, server := range ref.Servers {
		pdf.Cell(0, 6, tr("Server: "+server))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generated.UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	for _, ep := range ref.Endpoints {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s %s", ep.Method, ep.Path)))
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 5, tr(ep.Summary))
		pdf.Ln(5)
		pdf.Cell(0, 5, tr("Operation: "+ep.OperationID))
		pdf.Ln(5)
		if len(ep.Tags) > 0 {
			pdf.Cell(0, 5, tr("Tags: "+strings.Join(ep.Tags, ", ")))
			pdf.Ln(5)
		}
		security := "none"
		if len(ep.Security) > 0 {
			security = strings.Join(ep.Security, ", ")
		}
		pdf.Cell(0, 5, "Security: "+security)
		pdf.Ln(6)
		if ep.Description != "" {
			pdf.MultiCell(0, 5, tr(ep.Description), "", "L", false)
			pdf.Ln(2)
		}

		if len(ep.Params) > 0 {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(35, 6, "Parameter", "1", 0, "C", false, 0, "")
			pdf.CellFormat(15, 6, "In", "1", 0, "C", false, 0, "")
			pdf.CellFormat(75, 6, "Type", "1", 0, "C", false, 0, "")
			pdf.CellFormat(18, 6, "Required", "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, "Example", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 9)
			for _, p := range ep.Params {
				pdf.CellFormat(35, 6, tr(p.Name), "1", 0, "L", false, 0, "")
				pdf.CellFormat(15, 6, p.In, "1", 0, "C", false, 0, "")
				pdf.CellFormat(75, 6, tr(p.Type), "1", 0, "L", false, 0, "")
				pdf.CellFormat(18, 6, yesNo(p.Required), "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, tr(p.Example), "1", 0, "L", false, 0, "")
				pdf.Ln(-1)
			}
			pdf.Ln(2)
		}

		if len(ep.Fields) > 0 {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(50, 6, "Response field", "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, "Type", "1", 0, "C", false, 0, "")
			pdf.CellFormat(93, 6, "Example", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 9)
			for _, f := range ep.Fields {
				pdf.CellFormat(50, 6, tr(f.Name), "1", 0, "L", false, 0, "")
				pdf.CellFormat(40, 6, tr(f.Type), "1", 0, "L", false, 0, "")
				pdf.CellFormat(93, 6, tr(f.Example), "1", 0, "L", false, 0, "")
				pdf.Ln(-1)
			}
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
