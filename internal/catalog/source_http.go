package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://closet-recruiting-api.azurewebsites.net/api/data"

	maxPayloadBytes = 8 << 20
)

var ErrSourceUnavailable = errors.New("catalog source unavailable")

// Source produces the raw catalog. Implementations report transport problems
// wrapped in ErrSourceUnavailable and undecodable payloads wrapped in
// ErrMalformedResponse.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

type HTTPSource struct {
	URL    string
	Client *http.Client
	Log    *zap.Logger
}

func NewHTTPSource(url string, log *zap.Logger) *HTTPSource {
	if url == "" {
		url = DefaultEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPSource{
		URL: url,
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		Log: log,
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}

	products, warnings, err := decodeProducts(body)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.Log.Warn("catalog record rejected", zap.String("source", s.Name()), zap.String("reason", w))
	}
	return products, nil
}

// Ping only checks that the endpoint answers; the status code is not judged.
func (s *HTTPSource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.URL, nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
