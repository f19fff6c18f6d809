package catalog

import (
	"net/url"
	"strings"
)

// Query parameter names shared with the page URL.
const (
	ParamPaid     = "paid"
	ParamFree     = "free"
	ParamViewOnly = "viewOnly"
	ParamSearch   = "search"
)

var categoryParams = [...]string{
	Paid:     ParamPaid,
	Free:     ParamFree,
	ViewOnly: ParamViewOnly,
}

// Location is the page address the filter state is mirrored into.
type Location interface {
	Path() string
	RawQuery() string
	// Replace swaps the current address without adding a history entry.
	Replace(rawURL string)
}

// ParseQuery reads the category flags and search term from q. A flag is set
// only by the literal value "true"; anything else, including unknown keys,
// is ignored.
func ParseQuery(q url.Values) (CategorySet, string) {
	var cs CategorySet
	for _, c := range Categories {
		if q.Get(categoryParams[c]) == "true" {
			cs[c] = true
		}
	}
	return cs, q.Get(ParamSearch)
}

// ParseRawQuery is ParseQuery for an undecoded query string. Malformed pairs
// are skipped.
func ParseRawQuery(raw string) (CategorySet, string) {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return ParseQuery(q)
}

// EncodeQuery serializes the category flags and search term of st.
func EncodeQuery(st FilterState) url.Values {
	q := url.Values{}
	for _, c := range Categories {
		if st.Categories[c] {
			q.Set(categoryParams[c], "true")
		}
	}
	if st.Search != "" {
		q.Set(ParamSearch, st.Search)
	}
	return q
}

// BuildURL returns path with the encoded state appended, or the bare path
// when nothing is set.
func BuildURL(path string, st FilterState) string {
	q := EncodeQuery(st).Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// MemoryLocation is a Location held in memory. It records every replacement.
type MemoryLocation struct {
	path    string
	query   string
	History []string
}

func NewMemoryLocation(rawURL string) *MemoryLocation {
	l := &MemoryLocation{}
	l.set(rawURL)
	return l
}

func (l *MemoryLocation) Path() string { return l.path }
func (l *MemoryLocation) RawQuery() string { return l.query }

func (l *MemoryLocation) Replace(rawURL string) {
	l.set(rawURL)
	l.History = append(l.History, rawURL)
}

func (l *MemoryLocation) String() string {
	if l.query == "" {
		return l.path
	}
	return l.path + "?" + l.query
}

func (l *MemoryLocation) set(rawURL string) {
	path, query, _ := strings.Cut(rawURL, "?")
	if path == "" {
		path = "/"
	}
	l.path, l.query = path, query
}
