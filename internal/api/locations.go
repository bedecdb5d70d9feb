package api

import (
	"context"
	"net/http"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// LocationsByZip returns the locations of the given zip codes. Unknown zip
// codes come back as null entries and are dropped.
func (c *Client) LocationsByZip(ctx context.Context, zips []string) ([]domain.Location, error) {
	var raw []*domain.Location
	if err := c.do(ctx, request{endpoint: "locations", method: http.MethodPost, path: "/locations", body: zips}, &raw); err != nil {
		return nil, err
	}
	locs := make([]domain.Location, 0, len(raw))
	for _, l := range raw {
		if l != nil {
			locs = append(locs, *l)
		}
	}
	return locs, nil
}

// SearchLocations runs a location search.
func (c *Client) SearchLocations(ctx context.Context, q domain.LocationQuery) (domain.LocationResult, error) {
	var res domain.LocationResult
	err := c.do(ctx, request{endpoint: "locations_search", method: http.MethodPost, path: "/locations/search", body: q}, &res)
	return res, err
}
