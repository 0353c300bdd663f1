package mailtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultKeepTags keeps the table layout most itineraries are written in.
var DefaultKeepTags = []string{"table", "tr", "td", "head", "div", "br"}

// StripTags removes HTML markup from s. Tags named in keep survive without
// their attributes; with no keep list DefaultKeepTags is used. Script and
// style elements are dropped together with their content, comments are
// dropped, and runs of whitespace collapse to a single space.
func StripTags(s string, keep ...string) string {
	if len(keep) == 0 {
		keep = DefaultKeepTags
	}
	keepSet := make(map[string]bool, len(keep))
	for _, tag := range keep {
		keepSet[strings.ToLower(tag)] = true
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0

	for tt := z.Next(); tt != html.ErrorToken; tt = z.Next() {
		switch tt {
		case html.TextToken:
			if skipDepth == 0 {
				writeText(&b, string(z.Text()))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth == 0 && keepSet[string(name)] {
				b.WriteString("<" + string(name) + ">")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth == 0 && keepSet[string(name)] && a != atom.Br {
				b.WriteString("</" + string(name) + ">")
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// writeText appends text with whitespace collapsed, never emitting two
// spaces in a row across token boundaries.
func writeText(b *strings.Builder, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if text != "" {
			writeSpace(b)
		}
		return
	}
	if startsWithSpace(text) {
		writeSpace(b)
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	if endsWithSpace(text) {
		b.WriteByte(' ')
	}
}

func writeSpace(b *strings.Builder) {
	s := b.String()
	if s == "" || strings.HasSuffix(s, " ") {
		return
	}
	b.WriteByte(' ')
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
