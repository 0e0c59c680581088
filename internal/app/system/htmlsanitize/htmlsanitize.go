// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied profile text.
// Profile fields (names, titles, journals, agencies) are plain text;
// anything that looks like HTML is removed before the value is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML tags from s, decodes entities back to their
// literal characters, and trims surrounding whitespace. Characters like
// "<" in ordinary prose survive the round trip.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
