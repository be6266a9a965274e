package pdfengine

import "strings"

// glyphReplacer folds the ligatures and typographic variants embedded
// fonts commonly emit back into plain spellings.
var glyphReplacer = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
	"Ĳ", "IJ",
	"ĳ", "ij",
	"Œ", "OE",
	"œ", "oe",
	"Æ", "AE",
	"æ", "ae",

	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"′", "'",
	"″", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	"•", "*",

	" ", " ",
	" ", " ",
	" ", " ",
	" ", " ",
	" ", " ",
	"​", "",
	"­", "",
)

func normalizeGlyphs(s string) string {
	if s == "" {
		return s
	}
	return glyphReplacer.Replace(s)
}
