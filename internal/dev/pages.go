package dev

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/net/html"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/compiler"
)

// IndexDocument is served for directory URLs.
const IndexDocument = "index.toml"

// page is a cached compile result.
type page struct {
	modTime time.Time
	html    string
}

// pageCache holds compiled pages keyed by source path. An entry is valid
// only while the source keeps the modification time it was compiled from.
type pageCache struct {
	cache *ristretto.Cache
}

func newPageCache(size int64) (*pageCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &pageCache{cache: cache}, nil
}

func (c *pageCache) get(path string, modTime time.Time) (string, bool) {
	v, ok := c.cache.Get(path)
	if !ok {
		return "", false
	}
	p := v.(page)
	if !p.modTime.Equal(modTime) {
		return "", false
	}
	return p.html, true
}

func (c *pageCache) set(path string, modTime time.Time, html string) {
	c.cache.Set(path, page{modTime: modTime, html: html}, 1)
	c.cache.Wait()
}

func (c *pageCache) invalidate(path string) {
	c.cache.Del(path)
}

func (c *pageCache) close() {
	c.cache.Close()
}

// pages resolves URLs to documents and compiles them through the cache.
type pages struct {
	root     string
	compiler *compiler.Compiler
	cache    *pageCache
}

// resolve maps a URL path to the document that renders it: "/" and
// directory URLs to their index.toml, "/a/b.html" and "/a/b" to a/b.toml.
// ok is false when no such document exists.
func (p *pages) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)

	var rel string
	switch {
	case strings.HasSuffix(urlPath, "/") || clean == "/":
		rel = path.Join(clean, IndexDocument)
	case path.Ext(clean) == ".html":
		rel = strings.TrimSuffix(clean, ".html") + ".toml"
	case path.Ext(clean) == "":
		rel = clean + ".toml"
	default:
		return "", false
	}

	full := filepath.Join(p.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// render returns the HTML for the document at docPath, compiling it when
// the cached copy is missing or stale.
func (p *pages) render(ctx context.Context, docPath string) (string, error) {
	info, err := os.Stat(docPath)
	if err != nil {
		return "", errors.New(errors.CodeReadFile).WithSubject(docPath).Wrap(err)
	}
	if out, ok := p.cache.get(docPath, info.ModTime()); ok {
		return out, nil
	}

	res, err := p.compiler.CompileFileContent(ctx, docPath)
	if err != nil {
		return "", err
	}
	p.cache.set(docPath, info.ModTime(), res.HTML)
	return res.HTML, nil
}

// errorReport is the plain-text description of a compile error shown in
// the browser.
func errorReport(err error) string {
	he, ok := err.(*errors.HtomlError)
	if !ok {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(he.FormatCompact())
	if len(he.Context) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(he.Context, "\n"))
	}
	if he.Detail != "" {
		b.WriteString("\n\n")
		b.WriteString(he.Detail)
	}
	if he.Suggestion != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(he.Suggestion)
	}
	return b.String()
}

// errorPage renders err as a standalone HTML page.
func errorPage(err error) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>htoml: compile error</title></head>
<body style="font-family: system-ui; padding: 40px; background: #1a1a1a; color: #fff;">
<h1 style="color: #ff5555;">Compile Error</h1>
<pre style="white-space: pre-wrap; background: #111; padding: 20px; border-radius: 8px;">%s</pre>
<p style="color: #888;">Fix the document and save; the page reloads automatically.</p>
</body>
</html>`, html.EscapeString(errorReport(err)))
}
