package unit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds a unit spelling into the canonical lookup form:
// Unicode superscript exponents become ASCII digits (NFKC), multiplication
// dots and crosses become '*', the Unicode minus becomes '-', micro signs
// become 'u', and whitespace is removed. Case is preserved because unit
// symbols are case-sensitive ("mm" vs "Mm").
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t':
		case '·', '×', '⋅':
			b.WriteByte('*')
		case '−': // U+2212, produced by NFKC from superscript minus
			b.WriteByte('-')
		case 'µ', 'μ': // micro sign and Greek mu
			b.WriteByte('u')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
