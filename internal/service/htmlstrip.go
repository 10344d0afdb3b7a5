package service

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultPageLimit is the page size used when the caller does not supply one.
const DefaultPageLimit = 10

// stripHTML renders rich-text content to plain text for search matching.
// Tags are dropped, text nodes are kept and entities are unescaped; script
// and style bodies never reach the search index.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isNonTextTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isNonTextTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isNonTextTag(name string) bool {
	return name == "script" || name == "style"
}
