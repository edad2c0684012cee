package templates

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
)

// Config contains starter variables.
type Config struct {
	// Title is the page title.
	Title string

	// Lang is the document language.
	Lang string

	// Bucket is the S3 bucket for htoml publish. Empty leaves it unset.
	Bucket string

	// Port is the dev server port.
	Port int
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = "Home"
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.Port == 0 {
		c.Port = config.DefaultPort
	}
	return c
}

// Template represents a project starter.
type Template struct {
	// Name is the starter name.
	Name string

	// Description describes the starter.
	Description string

	// Files maps relative paths to template sources.
	Files map[string]string
}

// funcs are available to every starter file.
var funcs = template.FuncMap{
	"quote": quote,
}

// quote renders s as a double-quoted string literal. JSON string escapes
// are a subset of TOML basic string escapes, so the result is valid in
// both htoml.json and .toml files. TOML also rejects a raw DEL.
func quote(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(b), "\x7f", `\u007f`), nil
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"site":    siteTemplate(),
}

// Get returns a starter by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New(errors.CodeUnknownStarter).
			WithSubject(name).
			WithSuggestion("Available starters: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all starter names in sorted order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the starter's relative file paths in sorted order.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create renders the starter into dir and returns the written paths
// relative to dir. Nothing is written if any target already exists.
func (t *Template) Create(dir string, cfg Config) ([]string, error) {
	cfg = cfg.withDefaults()
	paths := t.Paths()

	rendered := make(map[string][]byte, len(paths))
	for _, rel := range paths {
		full := filepath.Join(dir, rel)
		if _, err := os.Stat(full); err == nil {
			return nil, errors.New(errors.CodeProjectExists).WithSubject(full)
		}

		tmpl, err := template.New(rel).Funcs(funcs).Parse(t.Files[rel])
		if err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "invalid starter file %s: %v", rel, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "starter file %s: %v", rel, err)
		}
		rendered[rel] = buf.Bytes()
	}

	for _, rel := range paths {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, errors.New(errors.CodeWriteFile).WithSubject(full).Wrap(err)
		}
		if err := os.WriteFile(full, rendered[rel], 0o644); err != nil {
			return nil, errors.New(errors.CodeWriteFile).WithSubject(full).Wrap(err)
		}
	}
	return paths, nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A config file and a single page",
		Files: map[string]string{
			config.ConfigFileName: `{
  "outDir": "dist",
  "serve": {
    "port": {{.Port}}
  }
}
`,
			"index.toml": `html = "html"
lang = {{quote .Lang}}

[head]
title = {{quote .Title}}

[[body]]
type = "p"
cont = { type = "strong", cont = {{quote .Title}} }

[[body]]
type = "p"
cont = "Edit index.toml and run htoml serve."
`,
		},
	}
}

func siteTemplate() *Template {
	return &Template{
		Name:        "site",
		Description: "Two linked pages ready for htoml publish",
		Files: map[string]string{
			config.ConfigFileName: `{
  "outDir": "dist",
  "escape": true,
  "serve": {
    "port": {{.Port}},
    "ignore": ["dist"]
  }{{if .Bucket}},
  "publish": {
    "bucket": {{quote .Bucket}}
  }{{end}}
}
`,
			"index.toml": `html = "html"
lang = {{quote .Lang}}

[head]
title = {{quote .Title}}

[[body]]
type = "p"
cont = { type = "strong", cont = {{quote .Title}} }

[[body]]
type = "hr"

[[body]]
type = "p"
cont = ["Read more ", { type = "a", href = "about.html", cont = "about this site" }, "."]
`,
			"about.toml": `html = "html"
lang = {{quote .Lang}}

[head]
title = "About"

[[body]]
type = "p"
cont = { type = "strong", cont = "About" }

[[body]]
type = "p"
cont = [{ type = "a", href = "index.html", cont = "Back home" }]
`,
		},
	}
}
