package formatting

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFilenameStem = 120

// foldAccents returns a fresh transformer; chained transformers hold state.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Filename builds a download filename of the form "<stem>_<suffix>".
// The stem is folded to ASCII (accents stripped, other characters replaced
// with underscores) so it can be carried in a Content-Disposition header.
// An empty stem becomes "untitled".
func Filename(stem, suffix string) string {
	folded, _, err := transform.String(foldAccents(), stem)
	if err != nil {
		folded = stem
	}

	var b strings.Builder
	for _, r := range strings.TrimSpace(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.' || r == '&':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxFilenameStem {
			break
		}
	}

	name := strings.Trim(b.String(), " .")
	if name == "" {
		name = "untitled"
	}
	return name + "_" + suffix
}
