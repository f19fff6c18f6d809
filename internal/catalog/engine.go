package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Derive computes the visible list: the products that pass the category,
// search and price passes of st, ordered by st.Sort. The input slice is never
// modified and the result is always a fresh, non-nil slice.
func Derive(products []Product, st FilterState) []Product {
	out := make([]Product, 0, len(products))

	needle := fold(strings.TrimSpace(st.Search))
	priceActive := st.Price.Active()

	for _, p := range products {
		if !st.Categories.Matches(p.Category) {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if priceActive && p.Price != nil && !st.Price.Contains(*p.Price) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, st.Sort)
	return out
}

func matchesSearch(p Product, needle string) bool {
	return strings.Contains(fold(p.Title), needle) ||
		strings.Contains(fold(p.OwnerName), needle)
}

func sortProducts(ps []Product, key SortKey) {
	switch key {
	case ByPriceDescending:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return cmp.Compare(b.EffectivePrice(), a.EffectivePrice())
		})
	case ByPriceAscending:
		slices.SortStableFunc(ps, func(a, b Product) int {
			return cmp.Compare(a.EffectivePrice(), b.EffectivePrice())
		})
	default:
		keys := make(map[string]string, len(ps))
		for _, p := range ps {
			if _, ok := keys[p.Title]; !ok {
				keys[p.Title] = fold(p.Title)
			}
		}
		slices.SortStableFunc(ps, func(a, b Product) int {
			return strings.Compare(keys[a.Title], keys[b.Title])
		})
	}
}

// fold maps s to its case-folded form. Casers are stateful, so each call
// builds its own.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
