package catalog

import (
	"context"

	"go.uber.org/zap"
)

// Browser owns the state of one catalog page: the loaded catalog, the active
// FilterState and the visible list derived from them. Every setter
// recomputes the visible list before returning and mirrors the state into
// the Location. A Browser is not safe for concurrent use.
type Browser struct {
	log      *zap.Logger
	loc      Location
	products []Product
	state    FilterState
	visible  []Product
}

func NewBrowser(loc Location, log *zap.Logger) *Browser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Browser{
		log:     log,
		loc:     loc,
		state:   DefaultFilterState(),
		visible: []Product{},
	}
}

// Init loads the catalog and only then seeds the filters from the location.
// When the load fails the filters are still seeded; the visible list stays
// empty until SetCatalog delivers products.
func (b *Browser) Init(ctx context.Context, loader *Loader) error {
	products, err := loader.Load(ctx)
	if err == nil {
		b.products = products
	} else {
		b.log.Error("catalog load failed", zap.Error(err))
	}

	if b.loc != nil {
		b.state.Categories, b.state.Search = ParseRawQuery(b.loc.RawQuery())
	}
	b.recompute()
	return err
}

// SetCatalog replaces the catalog. A nil catalog is treated as empty and
// logged as an integrity problem.
func (b *Browser) SetCatalog(products []Product) {
	if products == nil {
		b.log.Warn("catalog integrity", zap.String("reason", "nil catalog, treating as empty"))
		products = []Product{}
	}
	b.products = products
	b.recompute()
}

func (b *Browser) ToggleCategory(c PricingCategory) {
	b.state.Categories = b.state.Categories.With(c, !b.state.Categories.Has(c))
	b.changed()
}

func (b *Browser) SetCategories(cs CategorySet) {
	b.state.Categories = cs
	b.changed()
}

func (b *Browser) SetSearch(term string) {
	b.state.Search = term
	b.changed()
}

func (b *Browser) SetPriceRange(r PriceRange) {
	b.state.Price = r.Clamp()
	b.changed()
}

// SetPriceMin moves the lower bound; a value above the upper bound drags the
// upper bound along.
func (b *Browser) SetPriceMin(v float64) {
	r := b.state.Price
	r.Min = clampBound(v)
	if r.Min > r.Max {
		r.Max = r.Min
	}
	b.state.Price = r
	b.changed()
}

// SetPriceMax moves the upper bound; a value below the lower bound drags the
// lower bound along.
func (b *Browser) SetPriceMax(v float64) {
	r := b.state.Price
	r.Max = clampBound(v)
	if r.Max < r.Min {
		r.Min = r.Max
	}
	b.state.Price = r
	b.changed()
}

func (b *Browser) SetSort(k SortKey) {
	b.state.Sort = k
	b.changed()
}

// Apply replaces categories and search, and the price range when one is
// given, with a single recompute.
func (b *Browser) Apply(cs CategorySet, search string, price *PriceRange) {
	b.state.Categories = cs
	b.state.Search = search
	if price != nil {
		b.state.Price = price.Clamp()
	}
	b.changed()
}

// Reset restores the default filters, keeping the sort order, and clears the
// query string.
func (b *Browser) Reset() {
	sort := b.state.Sort
	b.state = DefaultFilterState()
	b.state.Sort = sort
	b.recompute()
	if b.loc != nil {
		b.loc.Replace(b.loc.Path())
	}
}

func (b *Browser) State() FilterState { return b.state }
func (b *Browser) Visible() []Product { return b.visible }
func (b *Browser) Catalog() []Product { return b.products }
func (b *Browser) Query() string { return EncodeQuery(b.state).Encode() }

func (b *Browser) changed() {
	b.recompute()
	if b.loc != nil {
		b.loc.Replace(BuildURL(b.loc.Path(), b.state))
	}
}

func (b *Browser) recompute() {
	b.visible = Derive(b.products, b.state)
}
