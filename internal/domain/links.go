package domain

import (
	"regexp"
	"strings"
)

var (
	// linkRe matches embedded link references, e.g. "https://t.co/abc123".
	linkRe = regexp.MustCompile(`https?://\S+`)

	// stripRe removes a link together with the spacing that preceded it, so
	// the surrounding words close up without a doubled gap. Whitespace
	// elsewhere in the text is left untouched.
	stripRe = regexp.MustCompile(`[ \t]*https?://\S+`)
)

// ExtractLink strips every link reference from text and returns the cleaned
// description plus the first link found ("" if none). Running it again on an
// already-cleaned description is a no-op.
func ExtractLink(text string) (description, link string) {
	link = linkRe.FindString(text)
	description = stripRe.ReplaceAllString(text, "")
	return strings.TrimSpace(description), link
}
