package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_products.yaml
var fallbackYAML []byte

var (
	fallbackOnce     sync.Once
	fallbackProducts []Product
	fallbackErr      error
)

// Fallback returns the bundled catalog. The embedded file is parsed once.
func Fallback() ([]Product, error) {
	fallbackOnce.Do(func() {
		fallbackProducts, fallbackErr = ParseFallback(fallbackYAML)
	})
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	return fallbackProducts, nil
}

// ParseFallback decodes a YAML list of wire records.
func ParseFallback(data []byte) ([]Product, error) {
	var ws []wireProduct
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}
	ps, err := mapWire(ws)
	if err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}
	return ps, nil
}
