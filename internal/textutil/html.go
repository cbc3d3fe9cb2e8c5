// Package textutil cleans up the free-text fields delivered by the
// broadcast API.
package textutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	lineBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphBreak = regexp.MustCompile(`(?i)</p>\s*<p[^>]*>`)
	whitespace     = regexp.MustCompile(`\s\s+`)
)

// StripHTML returns the text content of an HTML fragment. Line and
// paragraph breaks become " | " so that multi-line descriptions stay
// readable on one line.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	s = lineBreak.ReplaceAllString(s, " | ")
	s = paragraphBreak.ReplaceAllString(s, " | ")

	text := s
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err == nil {
		text = doc.Text()
	}

	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
