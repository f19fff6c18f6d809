package apiclient

import "sync"

// Indicator is the visual busy marker shown during loading requests.
type Indicator interface {
	Show()
	Hide()
}

// LoadingTracker counts outstanding loading requests so that overlapping
// requests show the indicator once and hide it once.
type LoadingTracker struct {
	mu  sync.Mutex
	n   int
	ind Indicator
}

func NewLoadingTracker(ind Indicator) *LoadingTracker {
	return &LoadingTracker{ind: ind}
}

// Begin marks a request as outstanding. The returned func ends it and may be
// called more than once.
func (t *LoadingTracker) Begin() func() {
	if t == nil {
		return func() {}
	}

	t.mu.Lock()
	if t.n == 0 && t.ind != nil {
		t.ind.Show()
	}
	t.n++
	t.mu.Unlock()

	var once sync.Once
	return func() { once.Do(t.end) }
}

func (t *LoadingTracker) end() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.n--
	if t.n == 0 && t.ind != nil {
		t.ind.Hide()
	}
}

func (t *LoadingTracker) Outstanding() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}
