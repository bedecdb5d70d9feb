// Package search implements the search orchestration engine. It owns the
// filter, sort and page state, resolves geographic facets into a zip filter,
// and keeps one page of results in sync with that state.
package search

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pawfetch/pawfetch/internal/config"
	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/geo"
	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/metrics"
)

const (
	// DefaultPageSize is the number of results per page.
	DefaultPageSize = 20
	// DefaultDebounce delays a search after the last state change.
	DefaultDebounce = 250 * time.Millisecond
)

// Catalog is the part of the API client the engine uses.
type Catalog interface {
	geo.LocationAPI
	Breeds(ctx context.Context) ([]string, error)
	SearchDogs(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
	DogsByIDs(ctx context.Context, ids []string) ([]domain.Dog, error)
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	PageSize           int
	ZipCap             int
	LocationSearchSize int
	// Debounce delays searches; zero runs them immediately.
	Debounce time.Duration
	Logger   logging.Logger
	Recorder metrics.Recorder
	Toasts   apperrors.ErrorHandler
}

// OptionsFromConfig reads the engine settings from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		PageSize:           config.GetInt("page_size", DefaultPageSize),
		ZipCap:             config.GetInt("zip_filter_cap", geo.DefaultZipCap),
		LocationSearchSize: config.GetInt("location_search_size", geo.DefaultSearchSize),
		Debounce:           time.Duration(config.GetInt("search_debounce_ms", int(DefaultDebounce/time.Millisecond))) * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.ZipCap <= 0 {
		o.ZipCap = geo.DefaultZipCap
	}
	if o.LocationSearchSize <= 0 {
		o.LocationSearchSize = geo.DefaultSearchSize
	}
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.Logger == nil {
		o.Logger = logging.Noop()
	}
	o.Recorder = metrics.OrNoop(o.Recorder)
	if o.Toasts == nil {
		o.Toasts = apperrors.Discard
	}
	return o
}

// State is the user-controlled input of a search.
type State struct {
	Filters domain.FilterState
	Sort    domain.SortSpec
	Offset  int
	// AgeSet records that the age range was chosen rather than defaulted to
	// the observed bounds.
	AgeSet bool
}

// DefaultState is the unfiltered first page sorted by breed.
func DefaultState(bounds domain.AgeRange) State {
	return State{Filters: domain.DefaultFilterState(bounds), Sort: domain.DefaultSort()}
}

func (s State) clone() State {
	s.Filters = s.Filters.Clone()
	return s
}

// Snapshot is a consistent copy of the engine's state and derived results.
type Snapshot struct {
	State
	PageSize int
	// Bounds is the observed [youngest, oldest] age in the catalog.
	Bounds       domain.AgeRange
	Bootstrapped bool
	Breeds       []string

	GeoZips   []string
	StateZips []string
	ZipFilter []string

	Dogs      []domain.Dog
	Total     int
	Locations map[string]domain.Location
	Loading   bool
}

// Page returns the current 1-based page number.
func (s Snapshot) Page() int { return CurrentPage(s.Offset, s.PageSize) }

// Pages returns the number of pages of the current result set.
func (s Snapshot) Pages() int { return TotalPages(s.Total, s.PageSize) }

// CanNext reports whether a following page exists.
func (s Snapshot) CanNext() bool { return s.Offset+s.PageSize < s.Total }

// CanPrev reports whether a preceding page exists.
func (s Snapshot) CanPrev() bool { return s.Offset-s.PageSize >= 0 }

// generations counts schedules per computation. A result is applied only
// when the counter still equals the value captured when it was scheduled.
type generations struct {
	geo       uint64
	state     uint64
	search    uint64
	locations uint64
}

// Engine is the search orchestrator. All mutation goes through its setters,
// which schedule the dependent recomputations. It is safe for concurrent use.
type Engine struct {
	api    Catalog
	geo    *geo.GeoResolver
	states *geo.StateResolver
	opts   Options
	log    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	st           State
	bounds       domain.AgeRange
	bootstrapped bool
	breeds       []string
	geoZips      []string
	stateZips    []string
	zipFilter    []string
	dogs         []domain.Dog
	total        int
	locations    map[string]domain.Location
	inflight     int
	pending      *time.Timer
	gen          generations
	listeners    []func()
}

// New creates an engine over api. Call Bootstrap before expecting results.
func New(api Catalog, opts Options) *Engine {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		api:       api,
		geo:       geo.NewGeoResolver(api, opts.LocationSearchSize),
		states:    geo.NewStateResolver(api, opts.LocationSearchSize),
		opts:      opts,
		log:       opts.Logger.With("component", "search"),
		ctx:       ctx,
		cancel:    cancel,
		st:        DefaultState(domain.AgeRange{}),
		locations: map[string]domain.Location{},
	}
}

// OnChange registers fn to be called after every state or result change.
// fn runs without engine locks held and may call back into the engine.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notify() {
	e.mu.Lock()
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Snapshot returns a copy of the current state and results.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	locs := make(map[string]domain.Location, len(e.locations))
	for k, v := range e.locations {
		locs[k] = v
	}
	return Snapshot{
		State:        e.st.clone(),
		PageSize:     e.opts.PageSize,
		Bounds:       e.bounds,
		Bootstrapped: e.bootstrapped,
		Breeds:       slices.Clone(e.breeds),
		GeoZips:      slices.Clone(e.geoZips),
		StateZips:    slices.Clone(e.stateZips),
		ZipFilter:    slices.Clone(e.zipFilter),
		Dogs:         slices.Clone(e.dogs),
		Total:        e.total,
		Locations:    locs,
		Loading:      e.inflight > 0 || e.pending != nil,
	}
}

// Query returns the search the current state would issue.
func (e *Engine) Query() domain.SearchQuery {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildQuery(e.st, e.bounds, e.zipFilter, e.opts.PageSize)
}

// Wait blocks until no computation is scheduled or running.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels in-flight work and drops pending searches.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.pending != nil && e.pending.Stop() {
		e.wg.Done()
	}
	e.pending = nil
	e.mu.Unlock()
	e.cancel()
	e.wg.Wait()
}
