package transliteration

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// elidableVowel is the rendering of the sixth-order (vowelless) fidel.
	elidableVowel = 'i'

	trailingPunctuation = ".,;:!?"

	// Words at or under this many runes keep their final vowel.
	minElisionLength = 2
)

// rule is a single word-level correction pass.
type rule struct {
	Name  string
	Apply func(word string) string
}

// pipeline is applied to every word token, in order. The order changes the
// output and must not be rearranged.
var pipeline = []rule{
	{Name: "cluster", Apply: expandClusters},
	{Name: "final-elision", Apply: elideFinalVowel},
	{Name: "prefix-apostrophe", Apply: markPrefix},
}

var clusterPatterns = []struct {
	pattern     string
	replacement string
}{
	{"mgb", "migib"},
	{"lj", "lij"},
}

// Grammatical prefixes as they appear after glyph mapping. Bare "be" is
// absent: it collides with fifth-order ቤ ("bet", "bete"). Words opening
// with fifth-order ሌ, ኬ or ዬ map to the same letters as "le", "ke" and
// "ye" and are marked like prefixed words (ሌላ is "le'la").
var prefixes = sortedByLength([]string{
	"ye",
	"le",
	"ke",
	"yemi",
	"bemi",
	"lemi",
	"kemi",
	"sile",
	"wede",
})

func sortedByLength(list []string) []string {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a))
	})
	return sorted
}

// ApplyRules runs the correction passes over a single word token.
func ApplyRules(word string) string {
	for _, r := range pipeline {
		word = r.Apply(word)
	}
	return word
}

func expandClusters(word string) string {
	for _, c := range clusterPatterns {
		word = strings.ReplaceAll(word, c.pattern, c.replacement)
	}
	return word
}

func elideFinalVowel(word string) string {
	letters, punct := splitTrailingPunctuation(word)
	if utf8.RuneCountInString(letters) > minElisionLength {
		if last, size := utf8.DecodeLastRuneInString(letters); last == elidableVowel {
			letters = letters[:len(letters)-size]
		}
	}
	return letters + punct
}

func markPrefix(word string) string {
	letters, punct := splitTrailingPunctuation(word)
	for _, p := range prefixes {
		if p == "" || len(letters) <= len(p) || !strings.HasPrefix(letters, p) {
			continue
		}
		rest := letters[len(p):]
		if r, size := utf8.DecodeRuneInString(rest); r == elidableVowel {
			rest = rest[size:]
		}
		return p + "'" + rest + punct
	}
	return word
}

func splitTrailingPunctuation(word string) (letters, punct string) {
	if word == "" {
		return "", ""
	}
	last := word[len(word)-1]
	if strings.IndexByte(trailingPunctuation, last) >= 0 {
		return word[:len(word)-1], word[len(word)-1:]
	}
	return word, ""
}
