package adapter

import (
	"html"
	"regexp"
	"strings"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// plainText turns an Adzuna snippet into plain text. Search hits come back
// wrapped in <strong> and entities are escaped; both are removed and runs of
// whitespace collapse to one space.
func plainText(snippet string) string {
	plain := markupTag.ReplaceAllString(html.UnescapeString(snippet), " ")
	return strings.Join(strings.Fields(plain), " ")
}
