package search

import (
	"strings"
)

// typoSubstitutions maps substrings to the look-alike characters shoppers
// commonly type in their place. The table is fixed; adding entries widens
// recall for every query containing the pattern.
var typoSubstitutions = []struct {
	pattern string
	alts    []string
}{
	{"i", []string{"1", "l"}},
	{"o", []string{"0"}},
	{"a", []string{"@"}},
	{"s", []string{"5", "$"}},
	{"e", []string{"3"}},
	{"ph", []string{"f"}},
	{"ck", []string{"k"}},
}

// TypoVariants returns the query together with one alternate spelling per
// applicable substitution. Only the first occurrence of a pattern is
// replaced; a single representative variant per alternate is enough to catch
// the typo anywhere a substring check runs. The result is deduplicated and
// always starts with the original query.
func TypoVariants(query string) []string {
	variants := []string{query}
	seen := map[string]bool{query: true}

	for _, sub := range typoSubstitutions {
		if !strings.Contains(query, sub.pattern) {
			continue
		}
		for _, alt := range sub.alts {
			variant := strings.Replace(query, sub.pattern, alt, 1)
			if !seen[variant] {
				seen[variant] = true
				variants = append(variants, variant)
			}
		}
	}

	return variants
}
