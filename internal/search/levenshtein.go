package search

import (
	"strings"
	"unicode/utf8"
)

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of unit-cost insertions, deletions and substitutions that
// transform one into the other. Two rows of the DP table are kept instead of
// the full matrix.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// FuzzyMatch reports whether any whitespace-delimited word of text lies
// within maxDistance edits of query. Words whose length differs from the
// query by more than the bound are skipped before computing the distance;
// such words can never be within the bound, so the prefilter is purely a
// performance guard. The scan cost is O(len(query)*len(word)) per candidate
// word, which is acceptable for catalogs in the low thousands but should be
// revisited before pointing this at a much larger corpus.
func FuzzyMatch(query, text string, maxDistance int) bool {
	queryLen := utf8.RuneCountInString(query)

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		diff := wordLen - queryLen
		if diff < 0 {
			diff = -diff
		}
		if diff > maxDistance {
			continue
		}
		if Distance(query, word) <= maxDistance {
			return true
		}
	}

	return false
}
