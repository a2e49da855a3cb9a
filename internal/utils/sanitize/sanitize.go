// Package sanitize turns user generated input into plain text.
//
// Stored text carries no markup and no HTML entities: "Tom & Jerry" is kept as
// typed. Clients escape on output. The result is never longer (in runes) than
// the input, so length checks done on the request still hold for the column.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds the strip/decode loop for input that nests encoded markup.
const maxPasses = 4

var strict = bluemonday.StrictPolicy()

// Text removes every tag (script and style bodies included) and decodes
// entities. Decoding can expose encoded tags such as "&lt;script&gt;", so the
// strip/decode step repeats until the text no longer changes.
func Text(s string) string {
	out := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// still unstable: keep the stripped but escaped form
	return strings.TrimSpace(strict.Sanitize(out))
}

// Plain is Text with runs of whitespace collapsed to one space.
// Used for short labels such as names, tags and reaction kinds.
func Plain(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// PlainAll applies Plain to each item and drops the ones left empty.
func PlainAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if v := Plain(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}
