package transliteration

import (
	"iter"
	"slices"
	"unicode"
	"unicode/utf8"
)

type TokenKind int

const (
	Word TokenKind = iota
	Space
)

func (k TokenKind) String() string {
	if k == Space {
		return "space"
	}
	return "word"
}

// Token is a maximal run of either whitespace or non-whitespace runes.
type Token struct {
	Text string
	Kind TokenKind
}

// Tokens splits text into alternating word and whitespace runs. Concatenating
// the Text of every yielded token reproduces text exactly.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		start := 0
		for start < len(text) {
			kind := kindAt(text, start)
			end := start
			for end < len(text) && kindAt(text, end) == kind {
				_, size := utf8.DecodeRuneInString(text[end:])
				end += size
			}
			if !yield(Token{Text: text[start:end], Kind: kind}) {
				return
			}
			start = end
		}
	}
}

// Tokenize is the eager form of Tokens.
func Tokenize(text string) []Token {
	return slices.Collect(Tokens(text))
}

// isSeparator reports whether r splits words. The ASCII information
// separators U+001C..U+001F count alongside unicode.IsSpace.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

func kindAt(text string, i int) TokenKind {
	r, _ := utf8.DecodeRuneInString(text[i:])
	if isSeparator(r) {
		return Space
	}
	return Word
}
