package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"watttime-api/internal/catalog"
	"watttime-api/internal/openapi"
)

var generatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func reference(t *testing.T) Reference {
	t.Helper()
	doc, err := catalog.Load()
	require.NoError(t, err)
	api, err := openapi.Build(doc)
	require.NoError(t, err)
	return FromOpenAPI(api.OpenAPI())
}

func TestFromOpenAPI(t *testing.T) {
	ref := reference(t)

	assert.Equal(t, catalog.Title, ref.Title)
	assert.Equal(t, catalog.Version, ref.Version)
	assert.Equal(t, []string{catalog.DefaultServerURL}, ref.Servers)
	require.Len(t, ref.Endpoints, 4)

	paths := make([]string, 0, len(ref.Endpoints))
	for _, ep := range ref.Endpoints {
		paths = append(paths, ep.Method+" "+ep.Path)
	}
	assert.Equal(t, []string{"GET /login", "GET /password", "POST /register", "GET /v3/region-from-loc"}, paths)

	login := ref.Endpoints[0]
	assert.Equal(t, []string{"basicAuth"}, login.Security)
	assert.Empty(t, login.Params)
	require.Len(t, login.Fields, 1)
	assert.Equal(t, Field{Name: "token", Type: "string", Example: "abcdef0123456789fedcabc"}, login.Fields[0])

	region := ref.Endpoints[3]
	assert.Equal(t, catalog.OpRegionFromLoc, region.OperationID)
	assert.Equal(t, []string{"bearerAuth"}, region.Security)
	require.Len(t, region.Params, 3)
	assert.Equal(t, "signal_type", region.Params[0].Name)
	assert.Equal(t, "query", region.Params[0].In)
	assert.True(t, region.Params[0].Required)
	assert.Contains(t, region.Params[0].Type, "co2_moer|co2_aoer|health_damage")
	assert.Equal(t, "latitude", region.Params[1].Name)
	assert.Equal(t, "42.372", region.Params[1].Example)
	assert.Equal(t, "-72.519", region.Params[2].Example)

	fields := make([]string, 0, len(region.Fields))
	for _, f := range region.Fields {
		fields = append(fields, f.Name)
	}
	assert.Equal(t, []string{"abbrev", "name", "signal_type"}, fields)

	register := ref.Endpoints[2]
	for _, p := range register.Params {
		if p.Name == "email" {
			assert.Equal(t, "string (email)", p.Type)
		}
		if p.Name == "org" {
			assert.False(t, p.Required)
		}
	}
}

func TestFromOpenAPINil(t *testing.T) {
	assert.Empty(t, FromOpenAPI(nil).Endpoints)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(reference(t), generatedAt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(reference(t), generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetEndpoints, SheetParameters, SheetResponses}, f.GetSheetList())

	title, err := f.GetCellValue(SheetEndpoints, "A1")
	require.NoError(t, err)
	assert.Equal(t, "WattTime Data API V3", title)

	op, err := f.GetCellValue(SheetEndpoints, "A5")
	require.NoError(t, err)
	assert.Equal(t, catalog.OpLogin, op)

	rows, err := f.GetRows(SheetParameters)
	require.NoError(t, err)
	// header, four register params, one password param, three region params
	assert.Len(t, rows, 9)

	rows, err = f.GetRows(SheetResponses)
	require.NoError(t, err)
	assert.Len(t, rows, 1+2+1+1+3)
}

func TestRender(t *testing.T) {
	ref := reference(t)
	for _, format := range []Format{FormatPDF, FormatXLSX} {
		data, err := Render(ref, format, generatedAt)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
	_, err := Render(ref, "csv", generatedAt)
	assert.Error(t, err)

	got, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, got)
	assert.Equal(t, "application/pdf", got.ContentType())
	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
