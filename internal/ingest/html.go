package ingest

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reTags = regexp.MustCompile(`(?is)<[^>]+>`)

// htmlToText renders an HTML body as whitespace-normalized plain text so
// the extraction heuristics see what the recipient would read.
func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return stripTags(s)
	}
	doc.Find("script, style, head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// stripTags is the crude fallback when the HTML won't even tokenize.
func stripTags(s string) string {
	s = reTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
