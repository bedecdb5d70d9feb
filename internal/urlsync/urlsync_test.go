package urlsync

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfetch/pawfetch/internal/domain"
	"github.com/pawfetch/pawfetch/internal/search"
)

var bounds = domain.AgeRange{Min: 0, Max: 14}

func TestHydrate(t *testing.T) {
	base := search.DefaultState(bounds)

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, st search.State)
	}{
		{
			name:  "empty keeps defaults",
			query: "",
			check: func(t *testing.T, st search.State) {
				assert.Equal(t, base, st)
			},
		},
		{
			name:  "all fields",
			query: "breeds=Akita,Beagle&age=2-8&zip=53703&radius=16093.4&states=wi,IL&sortBy=age&sortDir=desc&from=50",
			check: func(t *testing.T, st search.State) {
				assert.Equal(t, []string{"Akita", "Beagle"}, st.Filters.Breeds)
				assert.Equal(t, domain.AgeRange{Min: 2, Max: 8}, st.Filters.AgeRange)
				assert.True(t, st.AgeSet)
				assert.Equal(t, "53703", st.Filters.Zip)
				assert.InDelta(t, 16093.4, st.Filters.RadiusMeters, 1e-9)
				assert.Equal(t, []string{"WI", "IL"}, st.Filters.States)
				assert.Equal(t, domain.SortSpec{Field: domain.SortByAge, Direction: domain.SortDesc}, st.Sort)
				assert.Equal(t, 50, st.Offset)
			},
		},
		{
			name:  "malformed values are ignored",
			query: "age=9-2&radius=-5&sortBy=color&sortDir=up&from=-25",
			check: func(t *testing.T, st search.State) {
				assert.Equal(t, bounds, st.Filters.AgeRange)
				assert.False(t, st.AgeSet)
				assert.Zero(t, st.Filters.RadiusMeters)
				assert.Equal(t, domain.DefaultSort(), st.Sort)
				assert.Zero(t, st.Offset)
			},
		},
		{
			name:  "duplicate breeds collapse",
			query: "breeds=Pug,,Pug,%20Boxer",
			check: func(t *testing.T, st search.State) {
				assert.Equal(t, []string{"Pug", "Boxer"}, st.Filters.Breeds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			tt.check(t, Hydrate(q, base))
		})
	}
}

func TestReflectIsSparse(t *testing.T) {
	assert.Empty(t, Reflect(search.DefaultState(bounds), bounds))

	st := search.DefaultState(bounds)
	st.Sort.Direction = domain.SortDesc
	q := Reflect(st, bounds)
	assert.Equal(t, url.Values{ParamSortDir: {"desc"}}, q)
}

func TestRoundTrip(t *testing.T) {
	states := []search.State{
		{
			Filters: domain.FilterState{
				Breeds:       []string{"Akita", "Beagle"},
				AgeRange:     domain.AgeRange{Min: 1, Max: 5},
				Zip:          "53703",
				RadiusMeters: 8046.7,
				States:       []string{"WI"},
			},
			Sort:   domain.SortSpec{Field: domain.SortByName, Direction: domain.SortDesc},
			Offset: 75,
			AgeSet: true,
		},
		{
			Filters: domain.FilterState{AgeRange: bounds, States: []string{"CA", "OR"}},
			Sort:    domain.DefaultSort(),
		},
	}
	for _, st := range states {
		got := Hydrate(Reflect(st, bounds), search.DefaultState(bounds))
		assert.Equal(t, st, got)
	}
}

func TestLinkAndParseLink(t *testing.T) {
	q := url.Values{ParamBreeds: {"Akita,Pug"}, ParamFrom: {"25"}}
	link := Link("https://example.org/", q)
	assert.Equal(t, "https://example.org/search?breeds=Akita%2CPug&from=25", link)
	assert.Equal(t, "/search", Link("", nil))

	for _, in := range []string{link, "/search?breeds=Akita%2CPug&from=25", "breeds=Akita%2CPug&from=25"} {
		got, err := ParseLink(in)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
}

type stubEngine struct {
	mu        sync.Mutex
	st        search.State
	listeners []func()
	applied   int
	resets    int
}

func newStubEngine() *stubEngine {
	return &stubEngine{st: search.DefaultState(bounds)}
}

func (e *stubEngine) Snapshot() search.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return search.Snapshot{State: e.st, Bounds: bounds, PageSize: 25}
}

func (e *stubEngine) Apply(st search.State) {
	e.mu.Lock()
	e.st = st
	e.applied++
	e.mu.Unlock()
	e.fire()
}

func (e *stubEngine) Reset() {
	e.mu.Lock()
	e.st = search.DefaultState(bounds)
	e.resets++
	e.mu.Unlock()
	e.fire()
}

func (e *stubEngine) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *stubEngine) fire() {
	e.mu.Lock()
	ls := append([]func(){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range ls {
		fn()
	}
}

func TestSynchronizerHydratesOnce(t *testing.T) {
	eng := newStubEngine()
	loc := NewMemoryLocation(url.Values{ParamZip: {"53703"}, ParamRadius: {"1000"}})
	s := New(eng, loc, nil)

	s.Start()
	s.Start()

	assert.Equal(t, 1, eng.applied)
	assert.Equal(t, "53703", eng.Snapshot().Filters.Zip)
	assert.Equal(t, url.Values{ParamZip: {"53703"}, ParamRadius: {"1000"}}, loc.Query())
}

func TestSynchronizerReflectsChanges(t *testing.T) {
	eng := newStubEngine()
	loc := NewMemoryLocation(nil)
	s := New(eng, loc, nil)
	s.Start()
	before := loc.Replacements()

	st := search.DefaultState(bounds)
	st.Filters.Breeds = []string{"Pug"}
	eng.Apply(st)

	assert.Equal(t, url.Values{ParamBreeds: {"Pug"}}, loc.Query())
	assert.Equal(t, before+1, loc.Replacements())

	// Same state again does not rewrite the location.
	eng.Apply(st)
	assert.Equal(t, before+1, loc.Replacements())
}

func TestSynchronizerResetMarker(t *testing.T) {
	t.Run("at start", func(t *testing.T) {
		eng := newStubEngine()
		loc := NewMemoryLocation(url.Values{ParamReset: {"1"}, ParamBreeds: {"Pug"}})
		New(eng, loc, nil).Start()

		assert.Equal(t, 1, eng.resets)
		assert.Zero(t, eng.applied)
		assert.Empty(t, loc.Query())
	})

	t.Run("on navigation", func(t *testing.T) {
		eng := newStubEngine()
		loc := NewMemoryLocation(url.Values{ParamBreeds: {"Pug"}})
		s := New(eng, loc, nil)
		s.Start()
		require.Equal(t, []string{"Pug"}, eng.Snapshot().Filters.Breeds)

		s.Navigate(url.Values{ParamBreeds: {"Akita"}})
		assert.Zero(t, eng.resets)

		s.Navigate(url.Values{ParamReset: {"1"}})
		assert.Equal(t, 1, eng.resets)
		assert.Empty(t, eng.Snapshot().Filters.Breeds)
		assert.Empty(t, loc.Query())
	})
}
