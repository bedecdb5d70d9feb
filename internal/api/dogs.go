package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// Breeds returns every breed name known to the catalog.
func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	var breeds []string
	err := c.do(ctx, request{endpoint: "breeds", method: http.MethodGet, path: "/dogs/breeds"}, &breeds)
	return breeds, err
}

// SearchDogs runs a search and returns one page of ordered ids.
func (c *Client) SearchDogs(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	var res domain.SearchResult
	err := c.do(ctx, request{
		endpoint: "dogs_search",
		method:   http.MethodGet,
		path:     "/dogs/search",
		query:    searchParams(q),
	}, &res)
	return res, err
}

func searchParams(q domain.SearchQuery) url.Values {
	v := url.Values{}
	for _, b := range q.Breeds {
		v.Add("breeds", b)
	}
	for _, z := range q.ZipCodes {
		v.Add("zipCodes", z)
	}
	if q.AgeMin != nil {
		v.Set("ageMin", strconv.Itoa(*q.AgeMin))
	}
	if q.AgeMax != nil {
		v.Set("ageMax", strconv.Itoa(*q.AgeMax))
	}
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("from", strconv.Itoa(q.From))
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// DogsByIDs fetches full records. The catalog accepts at most 100 ids per call.
func (c *Client) DogsByIDs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	var dogs []domain.Dog
	err := c.do(ctx, request{endpoint: "dogs", method: http.MethodPost, path: "/dogs", body: ids}, &dogs)
	return dogs, err
}

// Match asks the catalog to pick one id out of ids.
func (c *Client) Match(ctx context.Context, ids []string) (string, error) {
	var res struct {
		Match string `json:"match"`
	}
	err := c.do(ctx, request{endpoint: "dogs_match", method: http.MethodPost, path: "/dogs/match", body: ids}, &res)
	return res.Match, err
}
