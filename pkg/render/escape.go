package render

import (
	"strings"

	"golang.org/x/net/html"
)

// escapeText escapes text for inclusion in HTML content.
func escapeText(s string) string {
	return html.EscapeString(s)
}

// attrEscaper additionally escapes whitespace that would break attribute parsing.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
