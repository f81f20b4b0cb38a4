// Package sanitize strips markup and script vectors from user utterances
// before any analysis runs.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// RE2 has no lookahead, so script blocks are matched lazily up to the
	// first closing tag.
	scriptBlock  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	schemes      = regexp.MustCompile(`(?i)(?:javascript|vbscript|data)\s*:`)
	eventHandler = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	angles       = regexp.MustCompile(`[<>]`)

	strict = bluemonday.StrictPolicy()
)

// maxPasses bounds the strip loop; each pass shortens the string, so a
// nested vector needs one pass per level.
const maxPasses = 16

// Clean returns raw with script blocks, markup, dangerous URL schemes, inline
// event handlers and angle brackets removed, trimmed of surrounding space.
// It never fails; empty or hostile input yields an empty or inert string.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	s := scriptBlock.ReplaceAllString(raw, "")
	s = strict.Sanitize(s)
	// The strict policy escapes what it keeps; undo that so apostrophes and
	// ampersands reach the matchers as typed.
	s = html.UnescapeString(s)
	s = scriptBlock.ReplaceAllString(s, "")
	s = stripVectors(s)
	s = angles.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// stripVectors removes schemes and handlers until none remain. Removing an
// inner "javascript:" from "javajavascript:script:" rebuilds an outer one.
func stripVectors(s string) string {
	for i := 0; i < maxPasses; i++ {
		next := eventHandler.ReplaceAllString(schemes.ReplaceAllString(s, ""), "")
		if next == s {
			return s
		}
		s = next
	}
	if schemes.MatchString(s) || eventHandler.MatchString(s) {
		return ""
	}
	return s
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Straighten replaces typographic apostrophes with the ASCII form.
func Straighten(s string) string {
	return apostrophes.Replace(s)
}

// Fold lower-cases s and straightens typographic apostrophes so matchers
// only need to handle the ASCII form.
func Fold(s string) string {
	return strings.ToLower(apostrophes.Replace(s))
}
