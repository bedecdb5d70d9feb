package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/metrics"
)

var errBoom = errors.New("boom")

// fakeCatalog serves a small fixed catalog. Bootstrap age probes (size 1)
// are answered from youngest/oldest; page searches go through onSearch.
type fakeCatalog struct {
	mu sync.Mutex

	breeds    []string
	breedsErr error
	ageErr    error
	dogs      map[string]domain.Dog
	youngest  string
	oldest    string

	onSearch    func(q domain.SearchQuery) (domain.SearchResult, error)
	onLocations func(zips []string) ([]domain.Location, error)
	onSearchLoc func(q domain.LocationQuery) (domain.LocationResult, error)

	pageQueries []domain.SearchQuery
	detailCalls [][]string
}

func newFakeCatalog() *fakeCatalog {
	dogs := map[string]domain.Dog{
		"d1": {ID: "d1", Name: "Ace", Breed: "Akita", Age: 1, ZipCode: "53703"},
		"d2": {ID: "d2", Name: "Bo", Breed: "Beagle", Age: 5, ZipCode: "53704"},
		"d3": {ID: "d3", Name: "Cy", Breed: "Corgi", Age: 14, ZipCode: "53703"},
	}
	return &fakeCatalog{
		breeds:   []string{"Corgi", "Akita", "Beagle"},
		dogs:     dogs,
		youngest: "d1",
		oldest:   "d3",
	}
}

func (f *fakeCatalog) Breeds(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.breeds, f.breedsErr
}

func (f *fakeCatalog) SearchDogs(_ context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	f.mu.Lock()
	if q.Size == 1 && (q.Sort == "age:asc" || q.Sort == "age:desc") {
		defer f.mu.Unlock()
		if f.ageErr != nil {
			return domain.SearchResult{}, f.ageErr
		}
		id := f.youngest
		if q.Sort == "age:desc" {
			id = f.oldest
		}
		return domain.SearchResult{ResultIDs: []string{id}, Total: len(f.dogs)}, nil
	}
	f.pageQueries = append(f.pageQueries, q)
	fn := f.onSearch
	f.mu.Unlock()
	if fn != nil {
		return fn(q)
	}
	return domain.SearchResult{ResultIDs: []string{"d3", "d1", "d2"}, Total: 3}, nil
}

// DogsByIDs answers in reverse order so callers must restore search order.
func (f *fakeCatalog) DogsByIDs(_ context.Context, ids []string) ([]domain.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, append([]string(nil), ids...))
	out := make([]domain.Dog, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if d, ok := f.dogs[ids[i]]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeCatalog) LocationsByZip(_ context.Context, zips []string) ([]domain.Location, error) {
	f.mu.Lock()
	fn := f.onLocations
	f.mu.Unlock()
	if fn != nil {
		return fn(zips)
	}
	out := make([]domain.Location, 0, len(zips))
	for _, z := range zips {
		out = append(out, domain.Location{ZipCode: z, City: "Madison", State: "WI", Latitude: 43.07, Longitude: -89.38})
	}
	return out, nil
}

func (f *fakeCatalog) SearchLocations(_ context.Context, q domain.LocationQuery) (domain.LocationResult, error) {
	f.mu.Lock()
	fn := f.onSearchLoc
	f.mu.Unlock()
	if fn != nil {
		return fn(q)
	}
	return domain.LocationResult{}, nil
}

func (f *fakeCatalog) queries() []domain.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SearchQuery(nil), f.pageQueries...)
}

func (f *fakeCatalog) lastQuery() domain.SearchQuery {
	qs := f.queries()
	if len(qs) == 0 {
		return domain.SearchQuery{}
	}
	return qs[len(qs)-1]
}

func (f *fakeCatalog) set(fn func(f *fakeCatalog)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu          sync.Mutex
	stale       map[string]int
	truncations int
}

func (r *countingRecorder) IncStaleResult(comp string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stale == nil {
		r.stale = map[string]int{}
	}
	r.stale[comp]++
}

func (r *countingRecorder) IncZipFilterTruncation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.truncations++
}

func (r *countingRecorder) staleCount(comp string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stale[comp]
}

type harness struct {
	api    *fakeCatalog
	engine *Engine
	toasts *apperrors.ToastHandler
	rec    *countingRecorder
}

func newHarness(opts Options) *harness {
	h := &harness{
		api:    newFakeCatalog(),
		toasts: apperrors.NewToastHandler(nil),
		rec:    &countingRecorder{},
	}
	if opts.PageSize == 0 {
		opts.PageSize = 3
	}
	opts.Toasts = h.toasts
	opts.Recorder = h.rec
	h.engine = New(h.api, opts)
	return h
}

func (h *harness) toastTexts() []string {
	var out []string
	for _, t := range h.toasts.All() {
		out = append(out, t.Text)
	}
	return out
}

// waitFor polls cond; used only where a goroutine must reach a blocking
// point before the test proceeds.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}
