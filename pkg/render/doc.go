// Package render converts htoml documents into HTML.
//
// Rendering is a depth-first walk over the document's content values:
//
//   - text is written as-is (or escaped, see RendererConfig.Escape)
//   - a sequence renders each of its values in order, with no separator
//   - an element table is dispatched on its type key against a closed set
//     of tags: the void elements br and hr, the simple elements p, b, i,
//     strong, mark, u, s and small, and the anchor a, which requires href
//
// Any other shape or tag fails the whole render; no partial output is
// returned from RenderToString.
//
// # Basic Usage
//
//	doc, err := document.Parse("index.toml", src)
//	if err != nil {
//	    return err
//	}
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(doc)
//
// A document renders as
//
//	<!DOCTYPE {html}><html><head>...</head><body lang="{lang}">...</body></html>
//
// # Escaping
//
// Text content is trusted markup and is not escaped by default, so a string
// such as "<em>hi</em>" passes straight through. Set Escape to treat text and
// attribute values as plain text instead. The doctype version is never
// escaped.
package render
