package reconciliation

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxNormalizePasses bounds the search for a fixed point in Normalize.
const maxNormalizePasses = 4

// Normalize decomposes s, strips combining marks, case-folds and collapses
// whitespace. The result is a fixed point: Normalize(Normalize(s)) ==
// Normalize(s) for every input, including invalid UTF-8.
func Normalize(s string) string {
	out := normalizePass(s)
	for range maxNormalizePasses {
		next := normalizePass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func normalizePass(s string) string {
	s = stripMarks(s)
	// Fold maps some scripts (Cherokee) to upper case; lowering afterwards
	// keeps a second pass from flipping them back.
	s = strings.ToLower(cases.Fold().String(s))
	// Folding can produce new decomposable runes.
	s = stripMarks(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
