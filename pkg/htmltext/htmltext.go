// Package htmltext reduces HTML fragments to plain text. Job descriptions
// arrive from forms and imports with markup in them; the board stores and
// searches plain text only.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes all tags from the fragment and collapses runs of
// whitespace to single spaces. Script and style contents are dropped
// entirely. Input that contains no markup comes back trimmed but otherwise
// unchanged.
func Strip(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skippable(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skippable(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skippable(tag string) bool {
	return tag == "script" || tag == "style"
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
