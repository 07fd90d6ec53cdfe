package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text for HTML content.
func escapeHTML(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes an attribute value. Whitespace control characters are
// encoded too so values survive reformatting.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
