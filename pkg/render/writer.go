package render

import "io"

// attr is a single name="value" attribute. Values are written as given.
type attr struct {
	name  string
	value string
}

// htmlWriter is the append-only output of one rendering pass.
// The first write error sticks; later writes are dropped.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) write(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s verbatim.
func (h *htmlWriter) text(s string) {
	h.write(s)
}

// open writes <tag attrs...>.
func (h *htmlWriter) open(tag string, attrs ...attr) {
	h.write("<")
	h.write(tag)
	for _, a := range attrs {
		h.write(" ")
		h.write(a.name)
		h.write(`="`)
		h.write(a.value)
		h.write(`"`)
	}
	h.write(">")
}

// close writes </tag>.
func (h *htmlWriter) close(tag string) {
	h.write("</")
	h.write(tag)
	h.write(">")
}

// void writes a self-closing <tag />.
func (h *htmlWriter) void(tag string) {
	h.write("<")
	h.write(tag)
	h.write(" />")
}

// element writes <tag>content</tag>.
func (h *htmlWriter) element(tag, content string) {
	h.open(tag)
	h.text(content)
	h.close(tag)
}
