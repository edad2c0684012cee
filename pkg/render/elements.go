package render

import "golang.org/x/net/html/atom"

// ElementKind is the rendering class of an element tag.
type ElementKind int

const (
	// ElementUnknown is any tag outside the supported set.
	ElementUnknown ElementKind = iota

	// ElementVoid has no content and no closing tag.
	ElementVoid

	// ElementSimple wraps its content in an open and close tag.
	ElementSimple

	// ElementAnchor is a link; it requires an href attribute.
	ElementAnchor
)

// String returns the kind name.
func (k ElementKind) String() string {
	switch k {
	case ElementVoid:
		return "void"
	case ElementSimple:
		return "simple"
	case ElementAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// Classify returns the kind of tag. Tags are matched exactly; "P" is not "p".
func Classify(tag string) ElementKind {
	switch atom.Lookup([]byte(tag)) {
	case atom.Br, atom.Hr:
		return ElementVoid
	case atom.P, atom.B, atom.I, atom.Strong, atom.Mark, atom.U, atom.S, atom.Small:
		return ElementSimple
	case atom.A:
		return ElementAnchor
	default:
		return ElementUnknown
	}
}

// SupportedTags lists every tag Classify accepts, grouped by kind.
func SupportedTags() map[ElementKind][]string {
	return map[ElementKind][]string{
		ElementVoid:   {"br", "hr"},
		ElementSimple: {"p", "b", "i", "strong", "mark", "u", "s", "small"},
		ElementAnchor: {"a"},
	}
}
