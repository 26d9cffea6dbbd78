package debug

import (
	"unicode"

	"golang.org/x/text/width"

	"github.com/ryanlewis/sctables/internal/common"
)

// Glyph classes reported in TableData.Classes.
const (
	ClassSpace     = "space"
	ClassASCII     = "ascii"
	ClassFullwidth = "fullwidth"
	ClassHan       = "han"
	ClassKana      = "kana"
	ClassPUA       = "pua"
	ClassOther     = "other"
)

// ClassifyGlyph returns the class of a table glyph. Null slots are not
// classified and return "".
func ClassifyGlyph(r rune) string {
	switch {
	case r == 0:
		return ""
	case r == ' ':
		return ClassSpace
	case r < 0x80:
		return ClassASCII
	case r >= common.PUAFirst && r <= common.PUALast:
		return ClassPUA
	case unicode.Is(unicode.Han, r):
		return ClassHan
	case unicode.In(r, unicode.Hiragana, unicode.Katakana):
		return ClassKana
	}

	if width.LookupRune(r).Kind() == width.EastAsianFullwidth {
		return ClassFullwidth
	}
	return ClassOther
}

// ClassifyTable counts the classes of every non-null glyph in table.
func ClassifyTable(table []rune) map[string]int {
	counts := make(map[string]int)
	for _, r := range table {
		if c := ClassifyGlyph(r); c != "" {
			counts[c]++
		}
	}
	return counts
}
