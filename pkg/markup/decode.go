// Package markup normalizes markup-escaped text back to literal characters.
//
// Content arriving through the escaped-preformatted container form carries
// HTML entities instead of literal characters. Diagram source must be decoded
// before classification, since keywords like "-->" and quoted labels never
// match in their escaped form.
package markup

import "strings"

// entity maps a markup escape sequence to its literal replacement.
// Only the sequences the preformatted container form actually produces are
// recognized; anything else passes through untouched.
type entity struct {
	seq string
	lit byte
}

var entities = []entity{
	{"&lt;", '<'},
	{"&gt;", '>'},
	{"&quot;", '"'},
	{"&#34;", '"'},
	{"&#39;", '\''},
	{"&amp;", '&'},
}

// Decode replaces the recognized markup escape sequences with their literal
// characters and trims a single trailing blank line. Decoding already-decoded
// text is a no-op: Decode(Decode(s)) == Decode(s) for any input.
func Decode(s string) string {
	if strings.IndexByte(s, '&') >= 0 {
		s = decodeEntities(s)
	}
	return trimTrailingBlank(s)
}

// decodeEntities performs a single left-to-right pass. Each '&' is checked
// against the entity table; a match emits the literal and skips the sequence,
// a miss emits the '&' as-is.
func decodeEntities(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		matched := false
		for _, e := range entities {
			if strings.HasPrefix(s[i:], e.seq) {
				b.WriteByte(e.lit)
				i += len(e.seq)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte('&')
			i++
		}
	}
	return b.String()
}

// trimTrailingBlank removes at most one trailing blank line. The final
// newline (or CRLF) is stripped only when it immediately follows another
// line terminator and stripping it leaves no further trailing blank line;
// a lone final newline belongs to the last content line and stays. Every
// output is therefore a fixpoint of the trim.
func trimTrailingBlank(s string) string {
	rest, ok := strings.CutSuffix(s, "\n")
	if !ok {
		return s
	}
	rest = strings.TrimSuffix(rest, "\r")

	prev, ok := strings.CutSuffix(rest, "\n")
	if !ok {
		return s
	}
	prev = strings.TrimSuffix(prev, "\r")
	if prev == "" || !strings.HasSuffix(prev, "\n") {
		return rest
	}
	return s
}
