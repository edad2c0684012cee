package render

import (
	"bytes"
	"io"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/document"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Escape HTML-escapes text content and attribute values.
	// Off by default: text is emitted verbatim.
	Escape bool
}

// Renderer converts documents to HTML. It holds no per-render state and is
// safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	return &Renderer{config: config}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// RenderToString renders a complete document. On error the returned string
// is empty.
func (r *Renderer) RenderToString(doc *document.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderContent renders a single content value as a fragment. doc, when not
// nil, is used to locate errors.
func (r *Renderer) RenderContent(w io.Writer, doc *document.Document, v any) error {
	p := r.newPass(w, doc)
	if err := p.render(v, document.Position{}); err != nil {
		return err
	}
	return p.out.err
}

// pass is one depth-first walk. It owns its output exclusively.
type pass struct {
	config RendererConfig
	doc    *document.Document
	out    *htmlWriter
}

func (r *Renderer) newPass(w io.Writer, doc *document.Document) *pass {
	return &pass{
		config: r.config,
		doc:    doc,
		out:    &htmlWriter{w: w},
	}
}

// fail locates err at pos in the source, when there is one.
func (p *pass) fail(err *errors.HtomlError, pos document.Position) error {
	if p.doc != nil {
		return p.doc.Locate(err, pos)
	}
	return err
}

func (p *pass) text(s string) string {
	if p.config.Escape {
		return escapeText(s)
	}
	return s
}

func (p *pass) attr(name, value string) attr {
	if p.config.Escape {
		value = escapeAttr(value)
	}
	return attr{name: name, value: value}
}

// render dispatches on the content kind. at is the position of the key that
// holds v, used when v itself is unsupported.
func (p *pass) render(v any, at document.Position) error {
	switch v := v.(type) {
	case string:
		p.out.text(p.text(v))
		return nil
	case []any:
		for _, item := range v {
			if err := p.render(item, at); err != nil {
				return err
			}
		}
		return nil
	case document.Table:
		return p.element(v)
	default:
		return p.fail(errors.New(errors.CodeUnknownContent).WithSubject(document.TypeName(v)), at)
	}
}

const (
	elementExample = `{ type = "p", cont = { type = "strong", cont = "Heading" } }`
	anchorExample  = `{ type = "a", href = "https://example.com", cont = "Home" }`
)

// element renders an element table.
func (p *pass) element(el document.Table) error {
	tag, ok, present := el.String("type")
	if !ok {
		pos := el.Position()
		if present {
			pos = el.KeyPosition("type")
		}
		return p.fail(errors.New(errors.CodeUntypedElement), pos)
	}
	typePos := el.KeyPosition("type")

	switch Classify(tag) {
	case ElementVoid:
		p.out.void(tag)
		return nil

	case ElementSimple:
		cont, ok := el.Get("cont")
		if !ok {
			return p.fail(errors.New(errors.CodeNoContent).WithSubject(tag), typePos)
		}
		p.out.open(tag)
		if err := p.render(cont, el.KeyPosition("cont")); err != nil {
			return err
		}
		p.out.close(tag)
		return nil

	case ElementAnchor:
		href, ok, present := el.String("href")
		if !ok {
			pos := typePos
			if present {
				pos = el.KeyPosition("href")
			}
			return p.fail(errors.New(errors.CodeAWithoutHref).WithExample(anchorExample), pos)
		}
		cont, ok := el.Get("cont")
		if !ok {
			return p.fail(errors.New(errors.CodeNoContent).WithSubject(tag), typePos)
		}
		p.out.open(tag, p.attr("href", href))
		if err := p.render(cont, el.KeyPosition("cont")); err != nil {
			return err
		}
		p.out.close(tag)
		return nil

	default:
		return p.fail(errors.New(errors.CodeUnknownElement).WithSubject(tag).WithExample(elementExample), typePos)
	}
}
