// Package templates provides project starters for htoml init.
//
// A starter is a set of files rendered with text/template and written
// into a new project directory. Existing files are never overwritten.
//
// # Available Starters
//
//   - minimal: htoml.json and a single index.toml
//   - site: an index page, an about page and a publish section in htoml.json
//
// # Usage
//
//	tmpl, err := templates.Get("site")
//	if err != nil {
//	    return err
//	}
//	created, err := tmpl.Create(dir, templates.Config{Title: "Notes"})
//
// # Template Variables
//
//	{{.Title}}    - Page title used in every document
//	{{.Lang}}     - Value of the lang key, defaults to "en"
//	{{.Bucket}}   - S3 bucket written to the publish section
//	{{.Port}}     - Dev server port
//
// String values go through the quote function, which emits a literal
// that is valid in both JSON and TOML:
//
//	title = {{quote .Title}}
package templates
