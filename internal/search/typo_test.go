package search

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTypoVariants(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains []string
	}{
		{
			name:     "ph substitution",
			query:    "phone",
			contains: []string{"phone", "fone"},
		},
		{
			name:     "i substitutions",
			query:    "iphone",
			contains: []string{"iphone", "1phone", "lphone", "ifone"},
		},
		{
			name:     "o substitution",
			query:    "note",
			contains: []string{"note", "n0te", "not3"},
		},
		{
			name:     "s substitutions",
			query:    "samsung",
			contains: []string{"samsung", "5amsung", "$amsung", "s@msung"},
		},
		{
			name:     "ck substitution",
			query:    "black",
			contains: []string{"black", "blak"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variants := TypoVariants(tt.query)
			for _, want := range tt.contains {
				assert.Contains(t, variants, want)
			}
		})
	}
}

func TestTypoVariants_EmptyQuery(t *testing.T) {
	assert.Equal(t, []string{""}, TypoVariants(""))
}

func TestTypoVariants_FirstOccurrenceOnly(t *testing.T) {
	// "oo" contains "o" twice; only the first is replaced
	variants := TypoVariants("book")
	assert.Contains(t, variants, "b0ok")
	assert.NotContains(t, variants, "b00k")
}

func TestTypoVariants_Deduplicated(t *testing.T) {
	for _, query := range []string{"iphone", "glass", "classic"} {
		variants := TypoVariants(query)
		seen := map[string]bool{}
		for _, v := range variants {
			if seen[v] {
				t.Errorf("duplicate variant %q for query %q", v, query)
			}
			seen[v] = true
		}
	}
}

func TestProperty_VariantsIdempotentWithoutPatterns(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Inputs containing none of the substitution patterns generate only
	// themselves
	properties.Property("pattern-free input yields a singleton", prop.ForAll(
		func(query string) bool {
			variants := TypoVariants(query)
			return len(variants) == 1 && variants[0] == query
		},
		// none of i, o, a, s, e, ph, ck can occur
		gen.RegexMatch(`[bdfgjmnqrtuvwxyz0-9]{0,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_OriginalAlwaysFirst(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("original query leads the variant list", prop.ForAll(
		func(query string) bool {
			variants := TypoVariants(query)
			return len(variants) >= 1 && variants[0] == query
		},
		gen.RegexMatch(`[a-z]{0,16}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
