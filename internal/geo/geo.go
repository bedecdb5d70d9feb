// Package geo resolves geographic facets into zip code sets.
package geo

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pawfetch/pawfetch/internal/domain"
)

const (
	// MetersPerDegree approximates one degree of latitude.
	MetersPerDegree = 111000.0

	// DefaultSearchSize is the page size requested from the location search,
	// large enough to cover any realistic region.
	DefaultSearchSize = 10000
)

// LocationAPI is the part of the catalog client the resolvers need.
type LocationAPI interface {
	LocationsByZip(ctx context.Context, zips []string) ([]domain.Location, error)
	SearchLocations(ctx context.Context, q domain.LocationQuery) (domain.LocationResult, error)
}

// BoundingBox returns the equirectangular box of half-size radiusMeters
// around center.
func BoundingBox(center domain.Coordinates, radiusMeters float64) domain.GeoBoundingBox {
	deltaLat := radiusMeters / MetersPerDegree
	deltaLon := radiusMeters / (MetersPerDegree * math.Cos(center.Lat*math.Pi/180))
	return domain.GeoBoundingBox{
		BottomLeft: &domain.Coordinates{Lat: center.Lat - deltaLat, Lon: center.Lon - deltaLon},
		TopRight:   &domain.Coordinates{Lat: center.Lat + deltaLat, Lon: center.Lon + deltaLon},
	}
}

// GeoResolver turns a zip code and radius into the zip codes inside the
// surrounding box.
type GeoResolver struct {
	api  LocationAPI
	size int
}

// NewGeoResolver returns a resolver. A non-positive size selects DefaultSearchSize.
func NewGeoResolver(api LocationAPI, size int) *GeoResolver {
	if size <= 0 {
		size = DefaultSearchSize
	}
	return &GeoResolver{api: api, size: size}
}

// Resolve returns nil without any request when zip is empty or the radius is
// not positive, and nil when the zip code is unknown.
func (r *GeoResolver) Resolve(ctx context.Context, zip string, radiusMeters float64) ([]string, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" || radiusMeters <= 0 {
		return nil, nil
	}
	locs, err := r.api.LocationsByZip(ctx, []string{zip})
	if err != nil {
		return nil, fmt.Errorf("look up zip %s: %w", zip, err)
	}
	if len(locs) == 0 {
		return nil, nil
	}
	box := BoundingBox(domain.Coordinates{Lat: locs[0].Latitude, Lon: locs[0].Longitude}, radiusMeters)
	res, err := r.api.SearchLocations(ctx, domain.LocationQuery{GeoBoundingBox: &box, Size: r.size})
	if err != nil {
		return nil, fmt.Errorf("search zip codes near %s: %w", zip, err)
	}
	return res.ZipCodes(), nil
}

// StateResolver turns region codes into the zip codes inside them.
type StateResolver struct {
	api  LocationAPI
	size int
}

// NewStateResolver returns a resolver. A non-positive size selects DefaultSearchSize.
func NewStateResolver(api LocationAPI, size int) *StateResolver {
	if size <= 0 {
		size = DefaultSearchSize
	}
	return &StateResolver{api: api, size: size}
}

// Resolve returns nil without any request when states is empty.
func (r *StateResolver) Resolve(ctx context.Context, states []string) ([]string, error) {
	if len(states) == 0 {
		return nil, nil
	}
	res, err := r.api.SearchLocations(ctx, domain.LocationQuery{States: states, Size: r.size})
	if err != nil {
		return nil, fmt.Errorf("search zip codes in %s: %w", strings.Join(states, ","), err)
	}
	return res.ZipCodes(), nil
}
