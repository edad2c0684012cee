// Package errors provides coded, located error messages for htoml.
//
// Every failure htoml can report is registered under a short code (e.g.
// "H023") that maps to a category, a one-line message, a longer detail and a
// documentation URL. Errors raised while walking a document carry the file,
// line and column of the offending TOML key together with the surrounding
// source lines.
//
// # Categories
//
//   - document: top-level structure (doctype version, head, body)
//   - element: content values and element tables
//   - syntax: the input is not valid TOML
//   - io: reading sources or writing output
//   - cli: command-line usage
//   - config: htoml.json problems
//   - publish: uploading compiled output
//
// # Usage
//
//	err := errors.New(errors.CodeUnknownElement).
//	    WithDetail(`Element type "blink" is not supported.`).
//	    WithSource("index.toml", src, 7, 1)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR H021: Unknown element type
//	//
//	//   index.toml:7:1
//	//
//	//      5 │ [[body]]
//	//      6 │ cont = "hi"
//	//   →  7 │ type = "blink"
//	//        │ ^
//	//
//	//   Element type "blink" is not supported.
package errors
