package catalog

import (
	"fmt"
	"strings"
)

// PricingCategory is the monetization model of a product.
type PricingCategory int

const (
	Paid PricingCategory = iota
	Free
	ViewOnly
)

var categoryNames = [...]string{
	Paid:     "Paid",
	Free:     "Free",
	ViewOnly: "ViewOnly",
}

// Categories lists every pricing category in declaration order.
var Categories = [...]PricingCategory{Paid, Free, ViewOnly}

func (c PricingCategory) Valid() bool {
	return c >= Paid && c <= ViewOnly
}

func (c PricingCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("PricingCategory(%d)", int(c))
	}
	return categoryNames[c]
}

func (c PricingCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid pricing category %d", int(c))
	}
	return []byte(categoryNames[c]), nil
}

func (c *PricingCategory) UnmarshalText(b []byte) error {
	v, err := ParsePricingCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParsePricingCategory accepts the display names as well as the short wire tags.
func ParsePricingCategory(s string) (PricingCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return Paid, nil
	case "free":
		return Free, nil
	case "view", "viewonly", "view only", "view_only":
		return ViewOnly, nil
	}
	return 0, fmt.Errorf("unknown pricing category %q", s)
}

type Product struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	OwnerName string          `json:"owner_name"`
	ImageRef  string          `json:"image_ref"`
	Category  PricingCategory `json:"pricing_category"`
	Price     *float64        `json:"price,omitempty"`
}

// EffectivePrice is the amount used for price ordering: the price of a Paid
// product, zero for everything else.
func (p Product) EffectivePrice() float64 {
	if p.Category != Paid || p.Price == nil {
		return 0
	}
	return *p.Price
}

// PriceOf is a helper for building products with a price.
func PriceOf(v float64) *float64 {
	return &v
}
