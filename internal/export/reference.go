// Package export renders the API reference as PDF and XLSX handbooks from the
// generated OpenAPI document.
package export

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"
)

// Reference is the flattened view of an OpenAPI document used by the renderers.
type Reference struct {
	Title     string
	Version   string
	Servers   []string
	Endpoints []Endpoint
}

// Endpoint describes one operation.
type Endpoint struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Security    []string
	Params      []Param
	Fields      []Field
}

// Param is a request parameter.
type Param struct {
	Name        string
	In          string
	Type        string
	Required    bool
	Example     string
	Description string
}

// Field is a property of the success response body.
type Field struct {
	Name    string
	Type    string
	Example string
}

var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// FromOpenAPI flattens oapi, ordering endpoints by path then method.
func FromOpenAPI(oapi *huma.OpenAPI) Reference {
	if oapi == nil {
		return Reference{}
	}
	ref := Reference{}
	if oapi.Info != nil {
		ref.Title = oapi.Info.Title
		ref.Version = oapi.Info.Version
	}
	ref.Servers = lo.Map(oapi.Servers, func(s *huma.Server, _ int) string { return s.URL })

	paths := lo.Keys(oapi.Paths)
	sort.Strings(paths)
	for _, path := range paths {
		item := oapi.Paths[path]
		if item == nil {
			continue
		}
		ops := map[string]*huma.Operation{
			http.MethodGet:    item.Get,
			http.MethodPost:   item.Post,
			http.MethodPut:    item.Put,
			http.MethodPatch:  item.Patch,
			http.MethodDelete: item.Delete,
		}
		for _, method := range methodOrder {
			op := ops[method]
			if op == nil {
				continue
			}
			ref.Endpoints = append(ref.Endpoints, endpoint(oapi, method, path, op))
		}
	}
	return ref
}

func endpoint(oapi *huma.OpenAPI, method, path string, op *huma.Operation) Endpoint {
	ep := Endpoint{
		OperationID: op.OperationID,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
	}
	for _, requirement := range op.Security {
		ep.Security = append(ep.Security, lo.Keys(requirement)...)
	}
	sort.Strings(ep.Security)

	ep.Params = lo.FilterMap(op.Parameters, func(p *huma.Param, _ int) (Param, bool) {
		if p == nil {
			return Param{}, false
		}
		param := Param{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Description: p.Description,
			Example:     exampleString(p.Example),
		}
		if p.Schema != nil {
			param.Type = schemaType(p.Schema)
			if param.Example == "" && len(p.Schema.Examples) > 0 {
				param.Example = exampleString(p.Schema.Examples[0])
			}
		}
		return param, true
	})

	ep.Fields = responseFields(oapi, op)
	return ep
}

func responseFields(oapi *huma.OpenAPI, op *huma.Operation) []Field {
	resp := op.Responses["200"]
	if resp == nil {
		return nil
	}
	media := resp.Content["application/json"]
	if media == nil || media.Schema == nil {
		return nil
	}
	schema := media.Schema
	if schema.Ref != "" && oapi.Components != nil && oapi.Components.Schemas != nil {
		schema = oapi.Components.Schemas.SchemaFromRef(schema.Ref)
	}
	if schema == nil {
		return nil
	}

	names := lo.Keys(schema.Properties)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) Field {
		prop := schema.Properties[name]
		field := Field{Name: name, Type: schemaType(prop)}
		if prop != nil && len(prop.Examples) > 0 {
			field.Example = exampleString(prop.Examples[0])
		}
		return field
	})
}

func schemaType(s *huma.Schema) string {
	if s == nil {
		return ""
	}
	typ := s.Type
	if s.Format != "" {
		typ += " (" + s.Format + ")"
	}
	if len(s.Enum) > 0 {
		values := lo.Map(s.Enum, func(v any, _ int) string { return exampleString(v) })
		typ += " [" + strings.Join(values, "|") + "]"
	}
	return typ
}

func exampleString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
