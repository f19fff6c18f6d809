package catalog

import (
	"fmt"
	"math"
)

// CategorySet is the selection of pricing categories. The zero value selects
// nothing, which the engine reads as "no category restriction".
type CategorySet [len(categoryNames)]bool

func NewCategorySet(cs ...PricingCategory) CategorySet {
	var s CategorySet
	for _, c := range cs {
		if c.Valid() {
			s[c] = true
		}
	}
	return s
}

func (s CategorySet) Has(c PricingCategory) bool {
	return c.Valid() && s[c]
}

func (s CategorySet) Empty() bool {
	return s == CategorySet{}
}

func (s CategorySet) With(c PricingCategory, on bool) CategorySet {
	if c.Valid() {
		s[c] = on
	}
	return s
}

// Selected returns the selected categories in declaration order.
func (s CategorySet) Selected() []PricingCategory {
	out := make([]PricingCategory, 0, len(s))
	for _, c := range Categories {
		if s[c] {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether a product in category c passes the category filter.
func (s CategorySet) Matches(c PricingCategory) bool {
	return s.Empty() || s.Has(c)
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange spans every representable price and therefore filters nothing.
var DefaultPriceRange = PriceRange{Min: 0, Max: math.MaxFloat64}

func (r PriceRange) Active() bool {
	return r != DefaultPriceRange
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp makes the range valid: negative or NaN bounds become zero, an infinite
// max becomes MaxFloat64 and a min above max drags max up to it.
func (r PriceRange) Clamp() PriceRange {
	r.Min = clampBound(r.Min)
	r.Max = clampBound(r.Max)
	if r.Min > r.Max {
		r.Max = r.Min
	}
	return r
}

func clampBound(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	}
	return v
}

type SortKey int

const (
	ByName SortKey = iota
	ByPriceDescending
	ByPriceAscending
)

var sortKeyNames = [...]string{
	ByName:            "name",
	ByPriceDescending: "higherPrice",
	ByPriceAscending:  "lowerPrice",
}

func (k SortKey) String() string {
	if k < ByName || k > ByPriceAscending {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

func ParseSortKey(s string) (SortKey, error) {
	for k, name := range sortKeyNames {
		if name == s {
			return SortKey(k), nil
		}
	}
	switch s {
	case "price-desc", "price_desc":
		return ByPriceDescending, nil
	case "price-asc", "price_asc":
		return ByPriceAscending, nil
	}
	return ByName, fmt.Errorf("unknown sort key %q", s)
}

// FilterState is every input of the derived view. It is a plain value; equal
// states over the same catalog always derive the same list.
type FilterState struct {
	Categories CategorySet
	Search     string
	Price      PriceRange
	Sort       SortKey
}

func DefaultFilterState() FilterState {
	return FilterState{Price: DefaultPriceRange, Sort: ByName}
}
