package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Showcase/pkg/kit"
)

const (
	ParamSort     = "sort"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"

	readyTimeout = 1 * time.Second
)

type Server struct {
	Loader *Loader
	Log    *zap.Logger
}

type ListResponse struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Query string    `json:"query"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Loader.Source.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, ok := s.load(w, r)
	if !ok {
		return
	}

	st := StateFromQuery(r.URL.Query())
	items := Derive(products, st)
	kit.WriteJSON(w, http.StatusOK, ListResponse{
		Items: items,
		Total: len(items),
		Query: EncodeQuery(st).Encode(),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	products, ok := s.load(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	for _, p := range products {
		if p.ID == id {
			kit.WriteJSON(w, http.StatusOK, p)
			return
		}
	}
	kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	products, err := s.Loader.Reload(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"total": len(products)})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]Product, bool) {
	products, err := s.Loader.Load(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return nil, false
	}
	return products, true
}

func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		kit.WriteError(w, r, http.StatusBadGateway, "catalog unavailable", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "request cancelled", nil)
	default:
		s.logger().Error("load catalog failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// StateFromQuery builds a FilterState from request parameters. Besides the
// page parameters it understands sort, minPrice and maxPrice; values that do
// not parse are ignored.
func StateFromQuery(q url.Values) FilterState {
	st := DefaultFilterState()
	st.Categories, st.Search = ParseQuery(q)

	if k, err := ParseSortKey(q.Get(ParamSort)); err == nil {
		st.Sort = k
	}

	price := DefaultPriceRange
	if v, ok := parsePrice(q.Get(ParamMinPrice)); ok {
		price.Min = v
	}
	if v, ok := parsePrice(q.Get(ParamMaxPrice)); ok {
		price.Max = v
	}
	st.Price = price.Clamp()
	return st
}

func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
