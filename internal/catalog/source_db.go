package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresSource reads the catalog from the products table:
//
//	id TEXT PRIMARY KEY, title TEXT, creator TEXT, image_path TEXT,
//	pricing_option SMALLINT, price NUMERIC NULL
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		if err := s.db.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return nil
	})
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, creator, image_path, pricing_option, price
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		defer rows.Close()

		out = make([]Product, 0, 32)
		for rows.Next() {
			var (
				p     Product
				code  int
				price sql.NullFloat64
			)
			if err := rows.Scan(&p.ID, &p.Title, &p.OwnerName, &p.ImageRef, &code, &price); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			p.Category = PricingCategory(code)
			if !p.Category.Valid() {
				return fmt.Errorf("%w: product %q has pricing_option %d", ErrMalformedResponse, p.ID, code)
			}
			if price.Valid {
				p.Price = PriceOf(price.Float64)
			}
			out = append(out, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
