package search

import (
	"strings"
	"unicode/utf8"
)

// particles are Korean postpositions commonly attached to a search term,
// longest first so "에서" is tried before "에".
var particles = []string{
	"에서", "으로", "에게", "한테", "까지", "부터", "이나", "이랑",
	"은", "는", "이", "가", "을", "를", "에", "의", "와", "과",
	"도", "로", "께", "만", "나", "랑", "요",
}

// StripParticle removes one trailing particle from tok, provided at least
// one character remains.
func StripParticle(tok string) string {
	tok = strings.TrimSpace(tok)
	for _, p := range particles {
		if strings.HasSuffix(tok, p) {
			rest := strings.TrimSuffix(tok, p)
			if utf8.RuneCountInString(rest) >= 1 {
				return rest
			}
		}
	}
	return tok
}
