// Package document loads htoml source files and exposes them as content
// values.
//
// A document is a TOML table. Its values are normalized into four shapes:
//
//   - string: text content
//   - Table: an element, or a section such as head
//   - []any: a sequence of content values (plain arrays, arrays of inline
//     tables and [[arrays of tables]] alike)
//   - anything else (numbers, booleans, dates), which renders as an error
//
// Tables remember the source position of their keys so that errors can point
// at the offending line.
package document
