package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultFetchTimeout = 2 * time.Second

	flightKey = "catalog"
)

// Loader is the product fetch service. The first successful fetch is kept in
// Store for the rest of the process; until then every caller that arrives
// while a fetch is running shares that fetch instead of starting its own.
type Loader struct {
	Source   Source
	Store    *Store
	Fallback func() ([]Product, error)
	Timeout  time.Duration
	Log      *zap.Logger
	Metrics  *FetchMetrics

	flight singleflight.Group
}

func NewLoader(src Source, store *Store, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Source:   src,
		Store:    store,
		Fallback: Fallback,
		Timeout:  DefaultFetchTimeout,
		Log:      log,
	}
}

// Load returns the catalog. Transport failures and timeouts yield the
// bundled fallback dataset without an error; only a malformed upstream
// payload is returned as an error. If ctx ends before the shared fetch does,
// Load returns ctx.Err() and the fetch carries on for the other callers.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	if l.Store.Loaded() {
		return l.Store.Products(), nil
	}
	return l.join(ctx, false)
}

// Reload fetches again and replaces the stored catalog wholesale.
func (l *Loader) Reload(ctx context.Context) ([]Product, error) {
	return l.join(ctx, true)
}

func (l *Loader) join(ctx context.Context, force bool) ([]Product, error) {
	ch := l.flight.DoChan(flightKey, func() (any, error) {
		if !force && l.Store.Loaded() {
			return l.Store.Products(), nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout())
		defer cancel()
		return l.fetch(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Product), nil
	}
}

type fetchResult struct {
	products []Product
	err      error
}

func (l *Loader) fetch(ctx context.Context) ([]Product, error) {
	started := time.Now()
	source := l.Source.Name()

	// A source that ignores ctx is abandoned when the timeout fires; its
	// late result lands in the buffered channel and is dropped.
	done := make(chan fetchResult, 1)
	go func() {
		ps, err := l.Source.Fetch(ctx)
		done <- fetchResult{products: ps, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = fmt.Errorf("%w: %v", ErrSourceUnavailable, ctx.Err())
	}

	switch {
	case res.err == nil:
		for _, w := range l.Store.Replace(res.products) {
			l.Log.Warn("catalog integrity", zap.String("source", source), zap.String("reason", w))
		}
		l.Metrics.observe(source, outcomeSuccess, started)
		l.Log.Info("catalog loaded", zap.String("source", source), zap.Int("products", l.Store.Len()))
		return l.Store.Products(), nil

	case errors.Is(res.err, ErrMalformedResponse):
		l.Metrics.observe(source, outcomeMalformed, started)
		l.Log.Error("catalog response malformed", zap.String("source", source), zap.Error(res.err))
		return nil, res.err

	default:
		l.Metrics.observe(source, outcomeFallback, started)
		if l.Store.Loaded() {
			l.Log.Warn("catalog reload failed, keeping current catalog", zap.String("source", source), zap.Error(res.err))
			return l.Store.Products(), nil
		}
		l.Log.Warn("catalog fetch failed, serving fallback", zap.String("source", source), zap.Error(res.err))
		return l.fallback()
	}
}

func (l *Loader) fallback() ([]Product, error) {
	if l.Fallback == nil {
		return []Product{}, nil
	}
	ps, err := l.Fallback()
	if err != nil {
		return nil, fmt.Errorf("load fallback catalog: %w", err)
	}
	return ps, nil
}

func (l *Loader) timeout() time.Duration {
	if l.Timeout <= 0 {
		return DefaultFetchTimeout
	}
	return l.Timeout
}
