// Package htmlsanitize cleans user-entered repair notes before they are shown
// in a page or written into an export.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	notes  = newNotesPolicy()
	strict = bluemonday.StrictPolicy()
)

// newNotesPolicy allows the small set of formatting a mechanic might paste
// into a repair note.
func newNotesPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "u", "ul", "ol", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize strips everything from s except basic formatting.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return notes.Sanitize(s)
}

// IsPlainText reports whether s carries no markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and turns newlines into <br>, wrapped in <p>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	esc := template.HTMLEscapeString(s)
	esc = strings.ReplaceAll(esc, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(esc, "\n", "<br>") + "</p>"
}

// PrepareForDisplay returns a note ready to drop into a template.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return template.HTML(Sanitize(s))
}

// PlainText removes all markup and returns unescaped text, for spreadsheet
// cells.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
