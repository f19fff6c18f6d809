package catalog_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"Showcase/internal/catalog"
)

func TestParseQuery_OnlyLiteralTrueSetsFlag(t *testing.T) {
	cs, search := catalog.ParseRawQuery("?paid=true&free=1&viewOnly=TRUE&search=ui&color=red")
	assert.Equal(t, catalog.NewCategorySet(catalog.Paid), cs)
	assert.Equal(t, "ui", search)
}

func TestParseQuery_Empty(t *testing.T) {
	cs, search := catalog.ParseQuery(url.Values{})
	assert.True(t, cs.Empty())
	assert.Empty(t, search)
}

func TestParseRawQuery_MalformedPairsSkipped(t *testing.T) {
	cs, search := catalog.ParseRawQuery("free=true&search=%zz&paid=true")
	assert.Equal(t, catalog.NewCategorySet(catalog.Paid, catalog.Free), cs)
	assert.Empty(t, search)
}

func TestEncodeQuery_OmitsUnsetValues(t *testing.T) {
	st := catalog.DefaultFilterState()
	assert.Empty(t, catalog.EncodeQuery(st).Encode())

	st.Categories = catalog.NewCategorySet(catalog.Free, catalog.ViewOnly)
	st.Search = "dark mode"
	st.Price = catalog.PriceRange{Min: 5, Max: 10}
	st.Sort = catalog.ByPriceAscending

	assert.Equal(t, "free=true&search=dark+mode&viewOnly=true", catalog.EncodeQuery(st).Encode())
}

func TestEncodeQuery_RoundTrip(t *testing.T) {
	st := catalog.DefaultFilterState()
	st.Categories = catalog.NewCategorySet(catalog.Paid, catalog.ViewOnly)
	st.Search = "a&b=c"

	cs, search := catalog.ParseQuery(catalog.EncodeQuery(st))
	assert.Equal(t, st.Categories, cs)
	assert.Equal(t, st.Search, search)
}

func TestBuildURL(t *testing.T) {
	st := catalog.DefaultFilterState()
	assert.Equal(t, "/store", catalog.BuildURL("/store", st))

	st.Categories = catalog.NewCategorySet(catalog.Paid)
	assert.Equal(t, "/store?paid=true", catalog.BuildURL("/store", st))
}

func TestMemoryLocation(t *testing.T) {
	loc := catalog.NewMemoryLocation("?free=true")
	assert.Equal(t, "/", loc.Path())
	assert.Equal(t, "free=true", loc.RawQuery())

	loc.Replace("/store?paid=true")
	assert.Equal(t, "/store", loc.Path())
	assert.Equal(t, "/store?paid=true", loc.String())
	assert.Equal(t, []string{"/store?paid=true"}, loc.History)
}
