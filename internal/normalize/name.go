package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name folds a player name into a comparison key: accents dropped, case
// folded, whitespace collapsed. "  José  GARCÍA " and "jose garcia" match.
func Name(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}
