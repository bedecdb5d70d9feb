package cmd

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfetch/pawfetch/internal/domain"
	"github.com/pawfetch/pawfetch/internal/favorites"
	"github.com/pawfetch/pawfetch/internal/search"
	"github.com/pawfetch/pawfetch/internal/version"
)

type fakeAuth struct {
	name, email string
	err         error
}

func (f *fakeAuth) Login(_ context.Context, name, email string) error {
	f.name, f.email = name, email
	return f.err
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		email   string
		apiErr  error
		wantErr error
	}{
		{name: "ok", user: " Ada ", email: "ada@example.com"},
		{name: "missing name", user: "", email: "ada@example.com", wantErr: errMissingCredentials},
		{name: "missing email", user: "Ada", email: "  ", wantErr: errMissingCredentials},
		{name: "api failure", user: "Ada", email: "ada@example.com", apiErr: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeAuth{err: tt.apiErr}
			err := login(context.Background(), c, tt.user, tt.email)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, c.name)
			case tt.apiErr != nil:
				assert.ErrorIs(t, err, tt.apiErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Ada", c.name)
				assert.Equal(t, "ada@example.com", c.email)
			}
		})
	}
}

type staticBreeds []string

func (s staticBreeds) Breeds(context.Context) ([]string, error) { return s, nil }

func TestPrintBreeds(t *testing.T) {
	all := staticBreeds{"Pug", "Akita", "Boxer", "Border Terrier"}
	tests := []struct {
		name  string
		query string
		regex bool
		want  string
	}{
		{name: "all", want: "Akita\nBorder Terrier\nBoxer\nPug\n"},
		{name: "substring", query: "BO", want: "Border Terrier\nBoxer\n"},
		{name: "regex", query: "^(pug|akita)$", regex: true, want: "Akita\nPug\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newBreedMatcher(tt.query, tt.regex)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, printBreeds(context.Background(), &buf, all, tt.query, m))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	_, err := newBreedMatcher("(", true)
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	origVersion, origCommit := version.Version, version.Commit
	t.Cleanup(func() { version.Version, version.Commit = origVersion, origCommit })
	version.Version, version.Commit = "0.3.1", "9f8e7d6"

	var buf bytes.Buffer
	c := newVersionCmd()
	c.SetOut(&buf)
	require.NoError(t, c.Execute())
	assert.Equal(t, "pawfetch version 0.3.1+9f8e7d6\n", buf.String())
}

func TestSearchFlagsApply(t *testing.T) {
	bounds := domain.AgeRange{Min: 0, Max: 14}
	tests := []struct {
		name    string
		flags   searchFlags
		set     []string
		want    func(st search.State) search.State
		wantErr bool
	}{
		{
			name:  "nothing changed",
			flags: searchFlags{breeds: []string{"Pug"}, page: 1},
			want:  func(st search.State) search.State { return st },
		},
		{
			name:  "filters",
			flags: searchFlags{breeds: []string{"Pug", "Pug"}, age: "2-6", zip: "53703", radius: 5000, states: []string{"wi"}},
			set:   []string{"breeds", "age", "zip", "radius", "states"},
			want: func(st search.State) search.State {
				st.Filters.Breeds = []string{"Pug"}
				st.Filters.AgeRange = domain.AgeRange{Min: 2, Max: 6}
				st.AgeSet = true
				st.Filters.Zip = "53703"
				st.Filters.RadiusMeters = 5000
				st.Filters.States = []string{"WI"}
				return st
			},
		},
		{
			name:  "sort and page",
			flags: searchFlags{sortBy: "Name", sortDir: "desc", page: 3},
			set:   []string{"sort-by", "sort-dir", "page"},
			want: func(st search.State) search.State {
				st.Sort = domain.SortSpec{Field: domain.SortByName, Direction: domain.SortDesc}
				st.Offset = 40
				return st
			},
		},
		{
			name:  "sort change returns to first page",
			flags: searchFlags{sortBy: "age"},
			set:   []string{"sort-by"},
			want: func(st search.State) search.State {
				st.Sort.Field = domain.SortByAge
				st.Offset = 0
				return st
			},
		},
		{
			name:  "same sort keeps offset",
			flags: searchFlags{sortBy: "breed", sortDir: "asc"},
			set:   []string{"sort-by", "sort-dir"},
			want:  func(st search.State) search.State { return st },
		},
		{name: "bad age", flags: searchFlags{age: "6-2"}, set: []string{"age"}, wantErr: true},
		{name: "bad sort", flags: searchFlags{sortBy: "color"}, set: []string{"sort-by"}, wantErr: true},
		{name: "bad page", flags: searchFlags{page: 0}, set: []string{"page"}, wantErr: true},
		{name: "negative radius", flags: searchFlags{radius: -1}, set: []string{"radius"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := search.DefaultState(bounds)
			st.Offset = 20
			changed := func(name string) bool { return slices.Contains(tt.set, name) }
			err := tt.flags.apply(&st, changed, 20)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			want := search.DefaultState(bounds)
			want.Offset = 20
			assert.Equal(t, tt.want(want), st)
		})
	}
}

// catalog is a small in-memory dog catalog.
type catalog struct {
	mu        sync.Mutex
	dogs      []domain.Dog
	queries   []domain.SearchQuery
	breedsErr error
}

func newCatalog() *catalog {
	return &catalog{dogs: []domain.Dog{
		{ID: "d1", Name: "Ace", Breed: "Akita", Age: 1, ZipCode: "53703"},
		{ID: "d2", Name: "Bo", Breed: "Beagle", Age: 5, ZipCode: "53704"},
		{ID: "d3", Name: "Cy", Breed: "Beagle", Age: 9, ZipCode: "53703"},
	}}
}

func (c *catalog) Breeds(context.Context) ([]string, error) {
	if c.breedsErr != nil {
		return nil, c.breedsErr
	}
	return []string{"Akita", "Beagle"}, nil
}

func (c *catalog) SearchDogs(_ context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var matched []domain.Dog
	for _, d := range c.dogs {
		if len(q.Breeds) > 0 && !slices.Contains(q.Breeds, d.Breed) {
			continue
		}
		matched = append(matched, d)
	}
	if strings.HasPrefix(q.Sort, "age:") {
		slices.SortFunc(matched, func(a, b domain.Dog) int { return a.Age - b.Age })
	}
	if strings.HasSuffix(q.Sort, ":desc") {
		slices.Reverse(matched)
	}
	if q.Size > 1 {
		c.queries = append(c.queries, q)
	}
	res := domain.SearchResult{Total: len(matched)}
	for i := q.From; i < len(matched) && i < q.From+q.Size; i++ {
		res.ResultIDs = append(res.ResultIDs, matched[i].ID)
	}
	return res, nil
}

func (c *catalog) DogsByIDs(_ context.Context, ids []string) ([]domain.Dog, error) {
	var out []domain.Dog
	for _, d := range c.dogs {
		if slices.Contains(ids, d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *catalog) LocationsByZip(_ context.Context, zips []string) ([]domain.Location, error) {
	var out []domain.Location
	for _, z := range zips {
		if z == "53703" {
			out = append(out, domain.Location{ZipCode: z, City: "Madison", State: "WI"})
		}
	}
	return out, nil
}

func (c *catalog) SearchLocations(context.Context, domain.LocationQuery) (domain.LocationResult, error) {
	return domain.LocationResult{}, nil
}

func TestRunSearch(t *testing.T) {
	c := newCatalog()
	var buf bytes.Buffer
	f := searchFlags{link: "/search?sortBy=age&sortDir=desc", breeds: []string{"Beagle"}}
	changed := func(name string) bool { return name == "breeds" }

	err := runSearch(context.Background(), &buf, c, search.Options{PageSize: 20}, f, changed, "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Showing 1–2 of 2")
	assert.Contains(t, out, "Sort: Age ↓")
	assert.Contains(t, out, "Cy")
	assert.Contains(t, out, "Madison, WI")
	assert.NotContains(t, out, "Ace")
	assert.Contains(t, out, "Link: /search?breeds=Beagle&sortBy=age&sortDir=desc")
	assert.Less(t, strings.Index(out, "Cy"), strings.Index(out, "Bo"))

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(t, slices.ContainsFunc(c.queries, func(q domain.SearchQuery) bool {
		return slices.Equal(q.Breeds, []string{"Beagle"}) && q.Sort == "age:desc"
	}))
}

func TestRunSearchSortOverLinkResetsOffset(t *testing.T) {
	c := newCatalog()
	var buf bytes.Buffer
	f := searchFlags{link: "/search?from=2", sortBy: "age"}
	changed := func(name string) bool { return name == "sort-by" }

	err := runSearch(context.Background(), &buf, c, search.Options{PageSize: 2}, f, changed, "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Showing 1–2 of 3")
	assert.Contains(t, buf.String(), "Link: /search?sortBy=age\n")

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(t, slices.ContainsFunc(c.queries, func(q domain.SearchQuery) bool {
		return q.From == 0 && q.Sort == "age:asc"
	}))
	assert.False(t, slices.ContainsFunc(c.queries, func(q domain.SearchQuery) bool {
		return q.From == 2 && q.Sort == "age:asc"
	}))
}

func TestRunSearchSurvivesBreedsFailure(t *testing.T) {
	c := newCatalog()
	c.breedsErr = errors.New("unavailable")
	var buf bytes.Buffer

	err := runSearch(context.Background(), &buf, c, search.Options{PageSize: 20}, searchFlags{}, func(string) bool { return false }, "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Showing 1–3 of 3")
}

func TestRunSearchReset(t *testing.T) {
	var buf bytes.Buffer
	f := searchFlags{link: "/search?breeds=Akita&reset=1"}

	err := runSearch(context.Background(), &buf, newCatalog(), search.Options{PageSize: 20}, f, func(string) bool { return false }, "https://example.org")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Showing 1–3 of 3")
	assert.Contains(t, buf.String(), "Link: https://example.org/search\n")
}

type fakeFavorites struct {
	ids      []string
	dogs     map[string]domain.Dog
	matchErr error
}

func (f *fakeFavorites) Toggle(_ context.Context, id string) (bool, error) {
	if i := slices.Index(f.ids, id); i >= 0 {
		f.ids = slices.Delete(f.ids, i, i+1)
		return false, nil
	}
	f.ids = append(f.ids, id)
	return true, nil
}

func (f *fakeFavorites) Details() []domain.Dog {
	var out []domain.Dog
	for _, id := range f.ids {
		out = append(out, f.dogs[id])
	}
	return out
}

func (f *fakeFavorites) Match(context.Context) (domain.Dog, error) {
	if len(f.ids) == 0 {
		return domain.Dog{}, favorites.ErrNoFavorites
	}
	if f.matchErr != nil {
		return domain.Dog{}, f.matchErr
	}
	return f.dogs[f.ids[0]], nil
}

func (f *fakeFavorites) Wait() {}

func TestFavoritesCommands(t *testing.T) {
	store := &fakeFavorites{dogs: map[string]domain.Dog{"d2": {ID: "d2", Name: "Bo", Breed: "Beagle", Age: 5}}}
	ctx := context.Background()

	var buf bytes.Buffer
	printFavorites(&buf, store)
	assert.Equal(t, "No favorites yet\n", buf.String())

	buf.Reset()
	err := printMatch(ctx, &buf, store)
	assert.ErrorIs(t, err, favorites.ErrNoFavorites)

	buf.Reset()
	require.NoError(t, toggleFavorites(ctx, &buf, store, []string{"d2", "d9", "d9"}))
	assert.Equal(t, "Added d2 to favorites\nAdded d9 to favorites\nRemoved d9 from favorites\n", buf.String())

	buf.Reset()
	printFavorites(&buf, store)
	assert.Contains(t, buf.String(), "Bo")

	buf.Reset()
	require.NoError(t, printMatch(ctx, &buf, store))
	assert.Contains(t, buf.String(), "Your match: Bo the Beagle")
}
