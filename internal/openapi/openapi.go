// Package openapi renders the API's OpenAPI document without starting a
// server, in the encodings the CLI and documentation tooling need.
package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	apihttp "watttime-api/internal/api/http"
	"watttime-api/internal/catalog"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Options control rendering.
type Options struct {
	Format Format
	// Indent pretty-prints JSON output.
	Indent bool
	// Downgrade renders the OpenAPI 3.0 form instead of 3.1.
	Downgrade bool
}

// ParseFormat accepts json or yaml, case-insensitively. Empty means json.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unknown format %q", value)
	}
}

// Build registers every documented operation against a throwaway mux and
// returns the API. Handlers answer 501; nothing is listening.
func Build(doc *catalog.Document) (huma.API, error) {
	if doc == nil {
		return nil, errors.New("openapi: catalog is nil")
	}
	api := humago.New(http.NewServeMux(), apihttp.NewConfig(doc))
	if err := apihttp.Install(api, doc, apihttp.Deps{}); err != nil {
		return nil, err
	}
	return api, nil
}

// Generate builds the document from the catalog and encodes it.
func Generate(doc *catalog.Document, opts Options) ([]byte, error) {
	api, err := Build(doc)
	if err != nil {
		return nil, err
	}
	return Encode(api.OpenAPI(), opts)
}

// Encode serializes an OpenAPI document.
func Encode(oapi *huma.OpenAPI, opts Options) ([]byte, error) {
	if oapi == nil {
		return nil, errors.New("openapi: document is nil")
	}

	var data []byte
	var err error
	if opts.Downgrade {
		data, err = oapi.Downgrade()
	} else {
		data, err = json.Marshal(oapi)
	}
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}

	switch opts.Format {
	case FormatYAML:
		return toYAML(data)
	case FormatJSON, "":
		if !opts.Indent {
			return data, nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, fmt.Errorf("openapi: indent: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("openapi: unknown format %q", opts.Format)
	}
}

// toYAML converts a JSON document to block-style YAML, keeping key order.
func toYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("openapi: yaml decode: %w", err)
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("openapi: yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("openapi: yaml encode: %w", err)
	}
	return buf.Bytes(), nil
}

func resetStyle(node *yaml.Node) {
	node.Style = 0
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" && strings.Contains(node.Value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	for _, child := range node.Content {
		resetStyle(child)
	}
}

// Validate loads a document with kin-openapi and checks it structurally. It
// accepts either encoding; 3.1 documents are downgraded first by the caller.
func Validate(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("openapi: load: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableSchemaFormatValidation()); err != nil {
		return fmt.Errorf("openapi: invalid document: %w", err)
	}
	return nil
}

// Write sends data to path, or to w when path is empty or "-".
func Write(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("openapi: create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("openapi: write %s: %w", path, err)
	}
	return nil
}
