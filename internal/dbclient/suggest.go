package dbclient

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Suggest returns the candidate closest to name, or "" when nothing is within
// a third of the name's length.
func Suggest(name string, candidates []string) string {
	input := []rune(strings.ToLower(name))
	maxDist := len(input)/3 + 1

	best, bestDist := "", maxDist+1
	for _, c := range candidates {
		d := levenshtein.DistanceForStrings(input, []rune(strings.ToLower(c)), levenshtein.DefaultOptionsWithSub)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
