package infohub

import (
	"regexp"
	"strings"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	nbspRegex       = regexp.MustCompile(`&nbsp;`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// stripHTML removes markup and collapses whitespace. Descriptions arrive as
// HTML fragments from the portal CMS.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}
	text := tagRegex.ReplaceAllString(html, " ")
	text = nbspRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
