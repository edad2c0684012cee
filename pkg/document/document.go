package document

import (
	"os"
	"sort"

	"github.com/pelletier/go-toml"

	"github.com/htoml-dev/htoml/internal/errors"
)

// Position is a 1-based line and column in a source document.
// The zero Position means unknown.
type Position struct {
	Line int
	Col  int
}

// Valid reports whether the position points into the source.
func (p Position) Valid() bool {
	return p.Line > 0
}

// Document is a parsed htoml source. It is immutable once parsed.
type Document struct {
	// Name identifies the source in error messages, usually its path.
	Name string

	// Source is the raw TOML text.
	Source []byte

	root Table
}

// Parse parses src as TOML. Syntax errors are reported as CodeInvalidToml
// with the parser's line and column.
func Parse(name string, src []byte) (*Document, error) {
	tree, err := toml.LoadBytes(src)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidToml).
			WithLocationFromError(name, src, err).
			Wrap(err)
	}
	return &Document{Name: name, Source: src, root: Table{tree: tree}}, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeReadFile).WithSubject(path).Wrap(err)
	}
	return Parse(path, src)
}

// Root returns the top-level table.
func (d *Document) Root() Table {
	return d.root
}

// Locate attaches pos, with the surrounding source lines, to err.
func (d *Document) Locate(err *errors.HtomlError, pos Position) *errors.HtomlError {
	return err.WithSource(d.Name, d.Source, pos.Line, pos.Col)
}

// Map returns the document as nested Go maps, for debugging output.
func (d *Document) Map() map[string]any {
	return d.root.tree.ToMap()
}

// Table is a TOML table: the root document, head, or an element.
type Table struct {
	tree *toml.Tree
}

// Has reports whether key is present.
func (t Table) Has(key string) bool {
	return t.tree != nil && t.tree.HasPath([]string{key})
}

// Get returns the normalized value for key.
func (t Table) Get(key string) (any, bool) {
	if !t.Has(key) {
		return nil, false
	}
	return normalize(t.tree.GetPath([]string{key})), true
}

// String returns the value for key if it is present and a string. present
// distinguishes a missing key from one holding another type.
func (t Table) String(key string) (s string, ok bool, present bool) {
	v, present := t.Get(key)
	if !present {
		return "", false, false
	}
	s, ok = v.(string)
	return s, ok, true
}

// Keys returns the table's keys in sorted order.
func (t Table) Keys() []string {
	if t.tree == nil {
		return nil
	}
	keys := t.tree.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the table.
func (t Table) Len() int {
	if t.tree == nil {
		return 0
	}
	return len(t.tree.Keys())
}

// Position returns where the table starts, if known.
func (t Table) Position() Position {
	if t.tree == nil {
		return Position{}
	}
	p := t.tree.Position()
	return Position{Line: p.Line, Col: p.Col}
}

// KeyPosition returns where key is defined, falling back to the table's own
// position.
func (t Table) KeyPosition(key string) Position {
	if t.tree != nil {
		p := t.tree.GetPositionPath([]string{key})
		if p.Line > 0 {
			return Position{Line: p.Line, Col: p.Col}
		}
	}
	return t.Position()
}

func normalize(v interface{}) any {
	switch v := v.(type) {
	case *toml.Tree:
		return Table{tree: v}
	case []*toml.Tree:
		out := make([]any, len(v))
		for i, tree := range v {
			out[i] = Table{tree: tree}
		}
		return out
	case []interface{}:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
