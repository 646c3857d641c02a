package apihttp

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"

	"watttime-api/internal/auth"
	"watttime-api/internal/catalog"
)

// OpenAPI document locations served by the API.
const (
	OpenAPIPath = "/openapi"
	DocsPath    = "/docs"
	SchemasPath = "/schemas"
)

// NewConfig builds the huma configuration carrying the catalog's document
// info, servers, tags and security schemes.
func NewConfig(doc *catalog.Document) huma.Config {
	servers := lo.Map(doc.Servers, func(s catalog.Server, _ int) *huma.Server {
		return &huma.Server{URL: s.URL, Description: s.Description}
	})
	tags := lo.Map(doc.Tags, func(t catalog.Tag, _ int) *huma.Tag {
		return &huma.Tag{Name: t.Name, Description: t.Description}
	})

	return huma.Config{
		OpenAPI: &huma.OpenAPI{
			OpenAPI: "3.1.0",
			Info: &huma.Info{
				Title:      doc.Title,
				Version:    doc.Version,
				Extensions: map[string]any{"x-logo": doc.Logo},
			},
			Servers: servers,
			Tags:    tags,
			Components: &huma.Components{
				Schemas:         huma.NewMapRegistry("#/components/schemas/", huma.DefaultSchemaNamer),
				SecuritySchemes: auth.SecuritySchemes(),
			},
		},
		OpenAPIPath: OpenAPIPath,
		DocsPath:    DocsPath,
		SchemasPath: SchemasPath,
		Formats: map[string]huma.Format{
			"application/json": huma.DefaultJSONFormat,
			"json":             huma.DefaultJSONFormat,
		},
		DefaultFormat: "application/json",
	}
}
