package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrMalformedResponse = errors.New("malformed catalog response")

// wireProduct is the record shape served by the upstream catalog endpoint.
// Its field names never leave this file.
type wireProduct struct {
	ID            wireID      `json:"id" yaml:"id"`
	ImagePath     string      `json:"imagePath" yaml:"imagePath"`
	Creator       string      `json:"creator" yaml:"creator"`
	Title         string      `json:"title" yaml:"title"`
	PricingOption wirePricing `json:"pricingOption" yaml:"pricingOption"`
	Price         *float64    `json:"price,omitempty" yaml:"price,omitempty"`
}

func (w wireProduct) product() (Product, error) {
	if w.ID == "" {
		return Product{}, errors.New("missing id")
	}
	if !w.PricingOption.set {
		return Product{}, fmt.Errorf("product %q: missing pricingOption", string(w.ID))
	}
	return Product{
		ID:        string(w.ID),
		Title:     w.Title,
		OwnerName: w.Creator,
		ImageRef:  w.ImagePath,
		Category:  w.PricingOption.category,
		Price:     w.Price,
	}, nil
}

// wireID accepts both string and numeric identifiers.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

func (id *wireID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("id: expected scalar at line %d", n.Line)
	}
	*id = wireID(n.Value)
	return nil
}

// wirePricing accepts the numeric codes 0/1/2 and the tags "paid"/"free"/"view".
type wirePricing struct {
	category PricingCategory
	set      bool
}

func (p *wirePricing) parse(raw string, quoted bool) error {
	if !quoted {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("pricingOption: %q is not a code", raw)
		}
		c := PricingCategory(code)
		if !c.Valid() {
			return fmt.Errorf("pricingOption: unknown code %d", code)
		}
		p.category, p.set = c, true
		return nil
	}

	c, err := ParsePricingCategory(raw)
	if err != nil {
		return fmt.Errorf("pricingOption: %w", err)
	}
	p.category, p.set = c, true
	return nil
}

func (p *wirePricing) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return p.parse(s, true)
	}
	return p.parse(string(b), false)
}

func (p *wirePricing) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("pricingOption: expected scalar at line %d", n.Line)
	}
	return p.parse(n.Value, n.Tag == "!!str")
}

// decodeProducts maps an upstream JSON payload to products. A payload that is
// not an array fails with ErrMalformedResponse; individual bad records are
// skipped and reported as warnings.
func decodeProducts(body []byte) ([]Product, []string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, nil, fmt.Errorf("%w: payload is not an array", ErrMalformedResponse)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]Product, 0, len(raw))
	var warnings []string
	for i, r := range raw {
		var w wireProduct
		if err := json.Unmarshal(r, &w); err != nil {
			warnings = append(warnings, fmt.Sprintf("record %d skipped: %v", i, err))
			continue
		}
		p, err := w.product()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("record %d skipped: %v", i, err))
			continue
		}
		out = append(out, p)
	}
	return out, warnings, nil
}

func mapWire(ws []wireProduct) ([]Product, error) {
	out := make([]Product, 0, len(ws))
	var errs []string
	for i, w := range ws {
		p, err := w.product()
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		out = append(out, p)
	}
	if len(errs) > 0 {
		return out, errors.New(strings.Join(errs, "; "))
	}
	return out, nil
}
