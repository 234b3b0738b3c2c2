// Package translit folds text into printable ASCII for renderers limited to a single-byte charset.
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Replacement is used for runes that have no ASCII approximation.
const Replacement = '?'

// Letters and symbols that do not decompose into an ASCII base rune.
var special = map[rune]string{
	'ı': "i",
	'İ': "I",
	'ß': "ss",
	'æ': "ae",
	'Æ': "AE",
	'ø': "o",
	'Ø': "O",
	'đ': "d",
	'Đ': "D",
	'ł': "l",
	'Ł': "L",
	'€': "EUR",
	'₺': "TL",
	'£': "GBP",
	'“': "\"",
	'”': "\"",
	'‘': "'",
	'’': "'",
	'–': "-",
	'—': "-",
	'…': "...",
	' ': " ",
}

// ASCII strips diacritics (ş→s, ğ→g, ö→o), maps the special letters above and replaces anything
// else outside printable ASCII with Replacement. Newlines and tabs are kept.
func ASCII(s string) string {
	if isASCII(s) {
		return s
	}
	var mapped strings.Builder
	for _, r := range s {
		if rep, ok := special[r]; ok {
			mapped.WriteString(rep)
			continue
		}
		mapped.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, mapped.String())
	if err != nil {
		stripped = mapped.String()
	}

	var out strings.Builder
	out.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r == '\n' || r == '\t':
			out.WriteRune(r)
		case r >= 0x20 && r < 0x7f:
			out.WriteRune(r)
		default:
			out.WriteRune(Replacement)
		}
	}
	return out.String()
}

// Fold lowercases and transliterates s for case- and accent-insensitive comparisons.
func Fold(s string) string {
	return strings.ToLower(ASCII(strings.TrimSpace(s)))
}

// Equal compares two labels ignoring case, accents and surrounding space.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x7f || (c < 0x20 && c != '\n' && c != '\t') {
			return false
		}
	}
	return true
}
