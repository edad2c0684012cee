package render

import (
	"bytes"
	"testing"

	"github.com/htoml-dev/htoml/pkg/document"
)

func parseDoc(t testing.TB, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse("test.toml", []byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return doc
}

// renderValue renders the value of the top-level key x in src.
func renderValue(t *testing.T, config RendererConfig, src string) (string, error) {
	t.Helper()
	doc := parseDoc(t, src)
	v, ok := doc.Root().Get("x")
	if !ok {
		t.Fatalf("no x in %q", src)
	}
	var buf bytes.Buffer
	err := NewRenderer(config).RenderContent(&buf, doc, v)
	return buf.String(), err
}
