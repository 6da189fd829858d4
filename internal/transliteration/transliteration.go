// Package transliteration renders Amharic fidel as a Latin phonetic
// approximation.
//
// The transform is a pure function of its input: every rune is mapped through
// a fixed glyph table, the result is split into word and whitespace runs, and
// each word goes through the correction passes in ApplyRules. Whitespace is
// preserved exactly. All functions are safe for concurrent use.
package transliteration

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Transliterate converts fidel in text to Latin letters. Runes outside the
// glyph table, including Latin letters, digits and malformed bytes, are kept
// as they are.
func Transliterate(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for tok := range Tokens(mapGlyphs(text)) {
		if tok.Kind == Space {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(ApplyRules(tok.Text))
	}
	return b.String()
}

func mapGlyphs(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(text[i])
		} else {
			b.WriteString(Lookup(r))
		}
		i += size
	}
	return b.String()
}

// ContainsEthiopic reports whether text has at least one rune from the
// Ethiopic script.
func ContainsEthiopic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Ethiopic, r) {
			return true
		}
	}
	return false
}
