// Package catalog holds the declarative description of the WattTime Data API:
// document info, tags, operations and their code samples. The HTTP layer and
// the OpenAPI generator are both built from it.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed content/*.md
var content embed.FS

const (
	Title   = "WattTime Data API"
	Version = "V3"

	DefaultServerURL         = "https://api.watttime.org"
	DefaultServerDescription = "WattTime Base API"
)

// Tag names.
const (
	TagIntroduction   = "Introduction"
	TagAuthentication = "Authentication"
	TagForecast       = "GET Forecast"
	TagHistorical     = "GET Historical"
	TagSignalAccess   = "Signal access"
	TagRegions        = "Regions and Maps"
	TagTransition     = "Transitioning from v2 to v3"
	TagSupport        = "Technical Support"
)

const authenticationDescription = "To start using the API, first register for an account by using the /register endpoint. " +
	"Then use the /login endpoint to obtain an access token. You can then use your token to access the remainder of our endpoints. " +
	"You must include your token in an authorization (bearer) header in subsequent requests to retrieve data. " +
	"Your access token will expire after 30 minutes and you'll need to sign in again to obtain a new one."

// Server is an API base URL.
type Server struct {
	URL         string
	Description string
}

// Logo is rendered by documentation viewers through the x-logo extension.
type Logo struct {
	URL             string `json:"url"`
	BackgroundColor string `json:"backgroundColor"`
	AltText         string `json:"altText"`
}

// Tag groups operations in the rendered reference.
type Tag struct {
	Name        string
	Description string
}

// CodeSample is one x-codeSamples entry.
type CodeSample struct {
	Lang   string `json:"lang"`
	Source string `json:"source"`
	Label  string `json:"label"`
}

// Document is the full catalog.
type Document struct {
	Title      string
	Version    string
	Servers    []Server
	Logo       Logo
	Tags       []Tag
	Operations []Operation
}

type options struct {
	docsDir   string
	serverURL string
}

// Option customizes Load.
type Option func(*options)

// WithDocsDir reads tag markdown from dir instead of the embedded copies.
func WithDocsDir(dir string) Option {
	return func(o *options) { o.docsDir = dir }
}

// WithServerURL replaces the documented base URL.
func WithServerURL(url string) Option {
	return func(o *options) { o.serverURL = url }
}

// Load assembles the catalog, reading the markdown tag descriptions.
func Load(opts ...Option) (*Document, error) {
	cfg := options{serverURL: DefaultServerURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.TrimSpace(cfg.serverURL) == "" {
		cfg.serverURL = DefaultServerURL
	}

	source, err := markdownSource(cfg.docsDir)
	if err != nil {
		return nil, err
	}
	intro, err := readMarkdown(source, "introduction.md")
	if err != nil {
		return nil, err
	}
	transition, err := readMarkdown(source, "transition.md")
	if err != nil {
		return nil, err
	}
	support, err := readMarkdown(source, "tech-support.md")
	if err != nil {
		return nil, err
	}

	return &Document{
		Title:   Title,
		Version: Version,
		Servers: []Server{{URL: strings.TrimRight(cfg.serverURL, "/"), Description: DefaultServerDescription}},
		Logo: Logo{
			URL:             "WattTime-logo-2023-black-1920px_wpad.png",
			BackgroundColor: "#DAD9D9",
			AltText:         "WattTime Logo",
		},
		Tags: []Tag{
			{Name: TagIntroduction, Description: intro},
			{Name: TagAuthentication, Description: authenticationDescription},
			{Name: TagForecast},
			{Name: TagHistorical},
			{Name: TagSignalAccess},
			{Name: TagRegions},
			{Name: TagTransition, Description: transition},
			{Name: TagSupport, Description: support},
		},
		Operations: operations(),
	}, nil
}

// Operation looks up an operation by id.
func (d *Document) Operation(id string) (Operation, bool) {
	if d == nil {
		return Operation{}, false
	}
	return lo.Find(d.Operations, func(op Operation) bool { return op.ID == id })
}

// Paths returns the distinct operation paths in declaration order.
func (d *Document) Paths() []string {
	if d == nil {
		return nil
	}
	return lo.Uniq(lo.Map(d.Operations, func(op Operation, _ int) string { return op.Path }))
}

// TagNames returns tag names in declaration order.
func (d *Document) TagNames() []string {
	if d == nil {
		return nil
	}
	return lo.Map(d.Tags, func(t Tag, _ int) string { return t.Name })
}

func markdownSource(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(content, "content")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: docs dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog: docs dir %q is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func readMarkdown(source fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(source, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("catalog: missing %s", name)
		}
		return "", fmt.Errorf("catalog: read %s: %w", name, err)
	}
	return string(data), nil
}
