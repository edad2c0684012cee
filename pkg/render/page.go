package render

import (
	"io"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/document"
)

// Top-level document keys.
const (
	keyVersion = "html"
	keyHead    = "head"
	keyBody    = "body"
	keyLang    = "lang"
	keyTitle   = "title"
)

// RenderToWriter writes a complete HTML document to w: the doctype, then
// head and body inside an html element. Output already written to w is not
// retracted on error; use RenderToString for all-or-nothing results.
func (r *Renderer) RenderToWriter(w io.Writer, doc *document.Document) error {
	p := r.newPass(w, doc)
	root := doc.Root()

	if err := p.version(root); err != nil {
		return err
	}
	p.out.open("html")
	if err := p.head(root); err != nil {
		return err
	}
	if err := p.body(root); err != nil {
		return err
	}
	p.out.close("html")

	return p.out.err
}

// version writes the doctype declaration. The version is interpolated as-is.
func (p *pass) version(root document.Table) error {
	version, ok, present := root.String(keyVersion)
	if !ok {
		var pos document.Position
		if present {
			pos = root.KeyPosition(keyVersion)
		}
		return p.fail(errors.New(errors.CodeUndeclaredFile), pos)
	}
	p.out.text("<!DOCTYPE " + version + ">")
	return nil
}

// head writes the head element. title is the only supported key.
func (p *pass) head(root document.Table) error {
	v, present := root.Get(keyHead)
	if !present {
		p.out.open("head")
		p.out.close("head")
		return nil
	}

	head, ok := v.(document.Table)
	if !ok {
		return p.fail(errors.New(errors.CodeNonTableHead), root.KeyPosition(keyHead))
	}

	p.out.open("head")
	for _, key := range head.Keys() {
		switch key {
		case keyTitle:
			title, ok, _ := head.String(keyTitle)
			if !ok {
				return p.fail(errors.New(errors.CodeNonStrTitle), head.KeyPosition(keyTitle))
			}
			p.out.element("title", p.text(title))
		default:
			return p.fail(errors.New(errors.CodeUnknownHead).WithSubject(key), head.KeyPosition(key))
		}
	}
	p.out.close("head")
	return nil
}

// body writes the body element, with a lang attribute when the document has one.
func (p *pass) body(root document.Table) error {
	var attrs []attr
	lang, ok, present := root.String(keyLang)
	if present {
		if !ok {
			return p.fail(errors.New(errors.CodeNonStrLang), root.KeyPosition(keyLang))
		}
		attrs = append(attrs, p.attr(keyLang, lang))
	}

	p.out.open("body", attrs...)
	if content, ok := root.Get(keyBody); ok {
		if err := p.render(content, root.KeyPosition(keyBody)); err != nil {
			return err
		}
	}
	p.out.close("body")
	return nil
}
