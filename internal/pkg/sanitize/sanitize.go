/*
Package sanitize strips executable and markup content from user-authored text
before it is relayed to other clients.

Built on bluemonday's strict policy: all HTML elements are removed, and the
contents of script and style elements are dropped rather than unwrapped.
*/
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxVanityLength caps display names after sanitization.
const MaxVanityLength = 32

var textPolicy = bluemonday.StrictPolicy().SkipElementsContent("script", "style")

// Text removes all markup from user-authored message content. It is a total
// function: any input yields a plain-text result, possibly empty.
func Text(raw string) string {
	cleaned := textPolicy.Sanitize(raw)

	// bluemonday entity-escapes its output; undo that so plain text like
	// "a & b" round-trips. The markup itself is already gone.
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Vanity sanitizes a display name: markup stripped, whitespace trimmed,
// length capped. Returns the empty string when nothing printable remains,
// leaving the caller to fall back to a generated name.
func Vanity(raw string) string {
	cleaned := Text(raw)

	if len(cleaned) > MaxVanityLength {
		cleaned = cleaned[:MaxVanityLength]
	}

	return cleaned
}
