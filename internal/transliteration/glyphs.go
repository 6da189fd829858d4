package transliteration

// series describes one consonant row of the fidel. Entries follow codepoint
// order starting at base: the seven vowel orders, then the labialised form.
// An empty entry means the codepoint is not mapped.
//
// Sixth-order forms normally end in the elidable vowel. ሽ, ቅ and ጭ keep
// their established spellings ("shih", "q'", "chi'") and so are never elided.
type series struct {
	base  rune
	forms [8]string
}

var consonantSeries = []series{
	{'ሀ', [8]string{"ha", "hu", "hee", "ha", "he", "hi", "ho", ""}},
	{'ለ', [8]string{"le", "lu", "lee", "la", "le", "li", "lo", "lwa"}},
	{'ሐ', [8]string{"ḥa", "ḥu", "ḥee", "ḥa", "ḥe", "ḥi", "ḥo", "ḥwa"}},
	{'መ', [8]string{"me", "mu", "mi", "ma", "me", "mi", "mo", "mwa"}},
	{'ሠ', [8]string{"se", "su", "si", "sa", "se", "si", "so", "swa"}},
	{'ረ', [8]string{"re", "ru", "ree", "ra", "re", "ri", "ro", "rwa"}},
	{'ሰ', [8]string{"se", "su", "see", "sa", "se", "si", "so", "swa"}},
	{'ሸ', [8]string{"she", "shu", "shee", "sha", "she", "shih", "sho", "shwa"}},
	{'ቀ', [8]string{"q'e", "q'u", "q'i", "q'a", "q'e", "q'", "q'o", ""}},
	{'በ', [8]string{"be", "bu", "bi", "ba", "be", "bi", "bo", "bwa"}},
	{'ቨ', [8]string{"ve", "vu", "vee", "va", "ve", "vi", "vo", "vwa"}},
	{'ተ', [8]string{"te", "tu", "tee", "ta", "te", "ti", "to", "twa"}},
	{'ቸ', [8]string{"che", "chu", "chee", "cha", "che", "chi", "cho", "chwa"}},
	{'ኀ', [8]string{"ha", "hu", "hee", "ha", "he", "hi", "ho", ""}},
	{'ነ', [8]string{"ne", "nu", "ni", "na", "ne", "ni", "no", "nwa"}},
	{'ኘ', [8]string{"ñe", "ñu", "ñee", "ña", "ñe", "ñi", "ño", "ñwa"}},
	{'አ', [8]string{"a", "u", "ee", "a", "e", "i", "o", ""}},
	{'ከ', [8]string{"ke", "ku", "ki", "ka", "ke", "ki", "ko", ""}},
	{'ኸ', [8]string{"he", "hu", "hee", "ha", "he", "hi", "ho", ""}},
	{'ወ', [8]string{"we", "wu", "wee", "wa", "we", "wi", "wo", ""}},
	{'ዐ', [8]string{"a", "u", "ee", "a", "e", "i", "o", ""}},
	{'ዘ', [8]string{"ze", "zu", "zi", "za", "ze", "zi", "zo", "zwa"}},
	{'ዠ', [8]string{"zje", "zju", "zji", "zja", "zje", "zji", "zjo", "zjwa"}},
	{'የ', [8]string{"ye", "yu", "yee", "ya", "ye", "yi", "yo", ""}},
	{'ደ', [8]string{"de", "du", "dee", "da", "de", "di", "do", "dwa"}},
	{'ጀ', [8]string{"je", "ju", "ji", "ja", "je", "ji", "jo", "jwa"}},
	{'ገ', [8]string{"ge", "gu", "gee", "ga", "ge", "gi", "go", ""}},
	{'ጠ', [8]string{"t'e", "t'u", "t'ee", "t'a", "t'e", "t'i", "t'o", "t'wa"}},
	{'ጨ', [8]string{"ch'e", "ch'u", "ch'ee", "ch'a", "ch'e", "chi'", "ch'o", "ch'wa"}},
	{'ጰ', [8]string{"p'e", "p'u", "p'ee", "p'a", "p'e", "p'i", "p'o", "p'wa"}},
	{'ጸ', [8]string{"tse", "tsu", "tsee", "tsa", "tse", "tsi", "tso", "tswa"}},
	{'ፀ', [8]string{"tse", "tsu", "tsee", "tsa", "tse", "tsi", "tso", ""}},
	{'ፈ', [8]string{"fe", "fu", "fee", "fa", "fe", "fi", "fo", "fwa"}},
	{'ፐ', [8]string{"pe", "pu", "pee", "pa", "pe", "pi", "po", "pwa"}},
}

// Labialised forms that live outside their series' eight-codepoint row.
var extraGlyphs = map[rune]string{
	'ቋ': "q'wa",
	'ኋ': "hwa",
	'ኳ': "kwa",
	'ጓ': "gwa",
}

var punctuationGlyphs = map[rune]string{
	'።': ".",
	'፣': ",",
	'፤': ";",
	'፥': ":",
	'፦': ":",
	'፧': "?",
	'፡': " ",
	'፨': "¶",

	' ':  " ",
	'\t': "\t",
	'\n': "\n",
	'\r': "\r",
}

// Combining gemination and vowel-length marks carry no Latin rendering.
var silentGlyphs = []rune{'\u135D', '\u135E', '\u135F'}

var glyphs = buildGlyphMap()

func buildGlyphMap() map[rune]string {
	m := make(map[rune]string, len(consonantSeries)*8+len(extraGlyphs)+len(punctuationGlyphs)+len(silentGlyphs))
	for _, s := range consonantSeries {
		for i, form := range s.forms {
			if form == "" {
				continue
			}
			m[s.base+rune(i)] = form
		}
	}
	for r, v := range extraGlyphs {
		m[r] = v
	}
	for r, v := range punctuationGlyphs {
		m[r] = v
	}
	for _, r := range silentGlyphs {
		m[r] = ""
	}
	return m
}

// Lookup returns the Latin rendering of r. Runes without an entry are
// returned unchanged.
func Lookup(r rune) string {
	if v, ok := glyphs[r]; ok {
		return v
	}
	return string(r)
}
