package search

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"ifone", "iphone", 2},
		{"samsung", "samsung", 0},
		{"telefon", "telefoni", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "Distance(%q, %q)", tt.a, tt.b)
	}
}

func TestDistance_NonASCII(t *testing.T) {
	// distances count runes, not bytes
	assert.Equal(t, 1, Distance("qoʻl", "qol"))
	assert.Equal(t, 2, Distance("çay", "chay"))
}

func TestProperty_DistanceSymmetric(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("distance(a,b) equals distance(b,a)", prop.ForAll(
		func(a, b string) bool {
			return Distance(a, b) == Distance(b, a)
		},
		gen.RegexMatch(`[a-z0-9]{0,12}`),
		gen.RegexMatch(`[a-z0-9]{0,12}`),
	))

	properties.Property("distance(a,a) is zero", prop.ForAll(
		func(a string) bool {
			return Distance(a, a) == 0
		},
		gen.RegexMatch(`[a-z0-9]{0,12}`),
	))

	properties.Property("distance from empty string is the other length", prop.ForAll(
		func(a string) bool {
			return Distance("", a) == len([]rune(a))
		},
		gen.RegexMatch(`[a-z0-9]{0,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		text        string
		maxDistance int
		want        bool
	}{
		{
			name:        "typo within bound",
			query:       "ifone",
			text:        "iphone 15 pro smartphone",
			maxDistance: 2,
			want:        true,
		},
		{
			name:        "exact word",
			query:       "galaxy",
			text:        "samsung galaxy s24",
			maxDistance: 2,
			want:        true,
		},
		{
			name:        "beyond bound",
			query:       "monitor",
			text:        "iphone 15 pro",
			maxDistance: 2,
			want:        false,
		},
		{
			name:        "length prefilter skips long words",
			query:       "tv",
			text:        "televizor",
			maxDistance: 2,
			want:        false,
		},
		{
			name:        "empty text",
			query:       "anything",
			text:        "",
			maxDistance: 2,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatch(tt.query, tt.text, tt.maxDistance))
		})
	}
}

func TestProperty_FuzzyMatchFindsExactWords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// A word present verbatim in the text is always a fuzzy match at any
	// non-negative bound
	properties.Property("exact word always matches", prop.ForAll(
		func(word, prefix string, bound int) bool {
			text := prefix + " " + word
			return FuzzyMatch(word, text, bound%3)
		},
		gen.RegexMatch(`[a-z]{1,10}`),
		gen.RegexMatch(`[a-z]{1,10}`),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
