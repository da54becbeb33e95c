package service

import (
	"strings"

	"tezbazar/internal/domain"
	"tezbazar/internal/search"
)

// The structured filters below are pure predicates over a single product.
// They commute, so applying them in any order gives the same result; the
// orchestrator runs them after the free-text stage, mirroring the order the
// search contract documents.

func matchesCategory(p *domain.Product, category string) bool {
	return strings.EqualFold(p.Category, category)
}

// matchesBrand is false for brandless products regardless of the filter value
func matchesBrand(p *domain.Product, brand string) bool {
	return p.Brand != "" && strings.EqualFold(p.Brand, brand)
}

// matchesTags passes when at least one filter tag appears among the product's
// tags, case-insensitively. OR within the tag list, AND with everything else.
func matchesTags(p *domain.Product, tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// matchesPrice applies inclusive bounds. An inverted range (min > max) is
// passed through untouched and simply matches nothing; validating the range
// is the caller's responsibility.
func matchesPrice(p *domain.Product, minPrice, maxPrice *int) bool {
	if minPrice != nil && p.Price < *minPrice {
		return false
	}
	if maxPrice != nil && p.Price > *maxPrice {
		return false
	}
	return true
}

// applyStructuredFilters narrows products to those satisfying every active
// constraint of f, preserving input order. The free-text query is ignored
// here; it belongs to the text stage.
func applyStructuredFilters(products []*domain.Product, f domain.SearchFilters) []*domain.Product {
	result := []*domain.Product{}
	for _, p := range products {
		if f.Category != "" && !matchesCategory(p, f.Category) {
			continue
		}
		if f.Brand != "" && !matchesBrand(p, f.Brand) {
			continue
		}
		if len(f.Tags) > 0 && !matchesTags(p, f.Tags) {
			continue
		}
		if !matchesPrice(p, f.MinPrice, f.MaxPrice) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// searchableText concatenates every text field a query can hit, lowercased.
// Absent optional fields are skipped.
func searchableText(p *domain.Product) string {
	parts := make([]string, 0, 5+len(p.Tags))
	for _, s := range []string{p.Title, p.Description, p.Category, p.Brand, p.ShortDescription} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// matchesFreeText accepts a product when any typo variant is a literal
// substring of its searchable text, or when the fuzzy matcher finds a word
// within the edit bound. The OR deliberately favors recall over precision:
// an exact variant hit is never re-examined by the fuzzy stage.
func matchesFreeText(p *domain.Product, query string, variants []string) bool {
	text := searchableText(p)
	for _, variant := range variants {
		if strings.Contains(text, variant) {
			return true
		}
	}
	return search.FuzzyMatch(query, text, FuzzyMatchDistance)
}
