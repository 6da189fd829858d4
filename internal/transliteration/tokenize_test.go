package transliteration

import (
	"slices"
	"strings"
	"testing"
)

func joinTokens(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty", "", nil},
		{"single word", "selam", []Token{{"selam", Word}}},
		{"only whitespace", " \t\r\n ", []Token{{" \t\r\n ", Space}}},
		{"two words", "selam lij", []Token{
			{"selam", Word}, {" ", Space}, {"lij", Word},
		}},
		{"mixed whitespace run", "a  \n\tb", []Token{
			{"a", Word}, {"  \n\t", Space}, {"b", Word},
		}},
		{"leading and trailing", " a ", []Token{
			{" ", Space}, {"a", Word}, {" ", Space},
		}},
		{"unicode whitespace", "a 　b", []Token{
			{"a", Word}, {" 　", Space}, {"b", Word},
		}},
		{"information separators", "a\x1cb\x1d\x1e\x1fc", []Token{
			{"a", Word}, {"\x1c", Space}, {"b", Word}, {"\x1d\x1e\x1f", Space}, {"c", Word},
		}},
		{"other controls stay in words", "a\x00b\x1b", []Token{
			{"a\x00b\x1b", Word},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"selam  \nlij",
		"\r\n\r\nle'selam. bet\t\t",
		"ሰላም ልጅ",
		"a\xffb \xfe",
	}
	for _, input := range inputs {
		if got := joinTokens(Tokenize(input)); got != input {
			t.Errorf("round trip of %q produced %q", input, got)
		}
	}
}

func TestTokensAlternate(t *testing.T) {
	var prev TokenKind = -1
	for tok := range Tokens("a b  c\nd ") {
		if tok.Kind == prev {
			t.Fatalf("adjacent tokens share kind %v", tok.Kind)
		}
		prev = tok.Kind
	}
}

func TestTokensStopsEarly(t *testing.T) {
	var count int
	for range Tokens("a b c d") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("iteration ran %d times after break, want 2", count)
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("selam lij")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass = %v, want %v", second, first)
	}
}
