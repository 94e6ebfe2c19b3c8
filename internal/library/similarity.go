package library

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the case-insensitive sequence-matching ratio of a and b in [0,1].
//
// The ratio is 2*M/T where M counts the characters in matching blocks and T is the
// combined length. Two empty strings are identical.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b))).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
