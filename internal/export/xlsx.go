package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the XLSX handbook.
const (
	SheetEndpoints  = "endpoints"
	SheetParameters = "parameters"
	SheetResponses  = "responses"
)

// BuildXLSX renders the reference handbook as a workbook with one sheet per
// table.
func BuildXLSX(ref Reference, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetEndpoints)
	f.NewSheet(SheetParameters)
	f.NewSheet(SheetResponses)

	_ = f.SetCellValue(SheetEndpoints, "A1", fmt.Sprintf("%s %s", ref.Title, ref.Version))
	_ = f.SetCellValue(SheetEndpoints, "D1", "Generated")
	_ = f.SetCellValue(SheetEndpoints, "E1", generated.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(SheetEndpoints, "A2", "Servers")
	_ = f.SetCellValue(SheetEndpoints, "B2", strings.Join(ref.Servers, ", "))

	header := []string{"Operation", "Method", "Path", "Summary", "Tags", "Security", "Description"}
	writeRow(f, SheetEndpoints, 4, header)
	for i, ep := range ref.Endpoints {
		writeRow(f, SheetEndpoints, i+5, []string{
			ep.OperationID,
			ep.Method,
			ep.Path,
			ep.Summary,
			strings.Join(ep.Tags, ", "),
			strings.Join(ep.Security, ", "),
			ep.Description,
		})
	}

	writeRow(f, SheetParameters, 1, []string{"Operation", "Name", "In", "Type", "Required", "Example", "Description"})
	row := 2
	for _, ep := range ref.Endpoints {
		for _, p := range ep.Params {
			writeRow(f, SheetParameters, row, []string{ep.OperationID, p.Name, p.In, p.Type, yesNo(p.Required), p.Example, p.Description})
			row++
		}
	}

	writeRow(f, SheetResponses, 1, []string{"Operation", "Field", "Type", "Example"})
	row = 2
	for _, ep := range ref.Endpoints {
		for _, field := range ep.Fields {
			writeRow(f, SheetResponses, row, []string{ep.OperationID, field.Name, field.Type, field.Example})
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, value)
	}
}
