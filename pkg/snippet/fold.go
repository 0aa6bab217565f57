package snippet

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTable maps accented letters to their base letters. Runes missing from
// the table are decomposed and stripped of their combining marks.
var foldTable = map[rune]string{
	'Š': "S", 'š': "s", 'Ž': "Z", 'ž': "z", 'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A",
	'Å': "A", 'Æ': "A", 'Ç': "C", 'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E", 'Ì': "I", 'Í': "I", 'Î': "I",
	'Ï': "I", 'Ñ': "N", 'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O", 'Ø': "O", 'Ù': "U", 'Ú': "U",
	'Û': "U", 'Ü': "U", 'Ý': "Y", 'Þ': "B", 'ß': "ss", 'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a",
	'å': "a", 'æ': "a", 'ç': "c", 'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ì': "i", 'í': "i", 'î': "i",
	'ï': "i", 'ð': "o", 'ñ': "n", 'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o", 'ù': "u",
	'ú': "u", 'û': "u", 'ý': "y", 'þ': "b", 'ÿ': "y",
}

// Fold returns the accent folded, lower cased form of s.
func Fold(s string) string {
	return fold(s, true).text
}

// FoldAccents returns s with accents folded and case preserved.
func FoldAccents(s string) string {
	return fold(s, false).text
}

// folded is an accent folded string that remembers, for every byte, which
// rune of the source produced it.
type folded struct {
	src  string
	text string
	// start[i] and end[i] delimit the source rune that produced text[i].
	start []int
	end   []int
}

func fold(s string, lower bool) folded {
	var b strings.Builder
	b.Grow(len(s))
	f := folded{
		src:   s,
		start: make([]int, 0, len(s)),
		end:   make([]int, 0, len(s)),
	}
	for i := 0; i < len(s); {
		// invalid bytes decode as RuneError with size 1
		r, size := utf8.DecodeRuneInString(s[i:])
		out := foldRune(r, lower)
		b.WriteString(out)
		for j := 0; j < len(out); j++ {
			f.start = append(f.start, i)
			f.end = append(f.end, i+size)
		}
		i += size
	}
	f.text = b.String()
	return f
}

// source maps the folded byte range [from, to) back to the source string.
func (f folded) source(from, to int) (int, int) {
	if from >= to || from >= len(f.start) {
		return 0, 0
	}
	return f.start[from], f.end[to-1]
}

// runeOffset returns the index, in runes of the source, of the rune that
// produced the folded byte at i.
func (f folded) runeOffset(i int) int {
	if i >= len(f.start) {
		return utf8.RuneCountInString(f.src)
	}
	return utf8.RuneCountInString(f.src[:f.start[i]])
}

func foldRune(r rune, lower bool) string {
	if r < utf8.RuneSelf {
		if lower && 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return string(r)
	}
	out, ok := foldTable[r]
	if !ok {
		out = stripMarks(string(r))
	}
	if lower {
		return strings.Map(unicode.ToLower, out)
	}
	return out
}

func stripMarks(s string) string {
	out, _, err := transform.String(runes.Remove(runes.In(unicode.Mn)), norm.NFD.String(s))
	if err != nil {
		return s
	}
	return norm.NFC.String(out)
}

// Locate returns the rune offset of query inside text, comparing accent
// folded, lower cased forms. An empty or missing query yields 0.
func Locate(text, query string) int {
	if query == "" {
		return 0
	}
	q := Fold(query)
	if q == "" {
		return 0
	}
	f := fold(text, true)
	i := strings.Index(f.text, q)
	if i < 0 {
		return 0
	}
	return f.runeOffset(i)
}
