package normalize

import (
	"regexp"
	"strings"
)

var (
	blockTagRegex = regexp.MustCompile(`(?i)<\s*(p|div|br|ul|ol|li|h[1-6])\b[^>]*>`)
	// A bullet glyph followed by whitespace starts a list item unless it
	// already sits at a line start or right after a tag.
	bulletRegex  = regexp.MustCompile(`([^\n>])\s*([•·*-])\s+`)
	newlineRegex = regexp.MustCompile(`\r\n|\r|\n`)
	tagRegex     = regexp.MustCompile(`<[^>]*>?`)
)

// HasBlockTags reports whether s already carries block-level markup.
func HasBlockTags(s string) bool {
	return blockTagRegex.MatchString(s)
}

// FormatPlainText turns plain text into HTML: bullets get a line break in
// front of them and every newline becomes <br />.
func FormatPlainText(text string) string {
	if text == "" {
		return ""
	}
	formatted := bulletRegex.ReplaceAllString(text, "$1<br/>$2 ")
	return newlineRegex.ReplaceAllString(formatted, "<br />")
}

// ProcessDescription returns s unchanged when it already has block tags and
// the FormatPlainText rendering otherwise.
func ProcessDescription(s string) string {
	if s == "" {
		return ""
	}
	if HasBlockTags(s) {
		return s
	}
	return FormatPlainText(s)
}

// StripHTML removes anything that looks like a tag. It never panics and
// returns "" on empty input.
func StripHTML(s string) (out string) {
	if s == "" {
		return ""
	}
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	return tagRegex.ReplaceAllString(s, "")
}

// Truncate shortens s to limit runes plus "...". A limit <= 0 disables it.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRightFunc(string(runes[:limit]), isSpace) + "..."
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
