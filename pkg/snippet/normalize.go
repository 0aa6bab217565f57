package snippet

import (
	"strings"

	"golang.org/x/net/html"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ")

// Normalize replaces "\r\n" and "\r" with a single space and strips markup
// from content. Plain "\n" is left alone. Line breaks go first since the
// tokenizer rewrites carriage returns to "\n".
func Normalize(content string) string {
	return StripTags(lineBreaks.Replace(content))
}

// StripTags removes HTML tags and comments, drops the text of script and
// style elements and decodes entities.
func StripTags(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))

	z := html.NewTokenizer(strings.NewReader(content))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail, either way we are done
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawText(tag []byte) bool {
	switch string(tag) {
	case "script", "style", "noscript":
		return true
	}
	return false
}
