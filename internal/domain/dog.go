// Package domain provides the value types of the adoptable-dog catalog.
// It contains the records returned by the remote API and the filter, sort and
// page specifications the search engine composes into queries.
package domain

// Dog is an adoptable animal record. Records are immutable once fetched and
// are keyed by ID.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// Location describes a zip code. It is only used as a derived lookup table.
type Location struct {
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
}

// Coordinates is a WGS 84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoBoundingBox is the rectangle accepted by the location search endpoint.
// Either the corner pair or the edge values may be supplied.
type GeoBoundingBox struct {
	BottomLeft *Coordinates `json:"bottom_left,omitempty"`
	TopRight   *Coordinates `json:"top_right,omitempty"`
	Top        *float64     `json:"top,omitempty"`
	Left       *float64     `json:"left,omitempty"`
	Bottom     *float64     `json:"bottom,omitempty"`
	Right      *float64     `json:"right,omitempty"`
}

// Contains reports whether p lies inside a corner-defined box.
func (b GeoBoundingBox) Contains(p Coordinates) bool {
	if b.BottomLeft == nil || b.TopRight == nil {
		return false
	}
	return p.Lat >= b.BottomLeft.Lat && p.Lat <= b.TopRight.Lat &&
		p.Lon >= b.BottomLeft.Lon && p.Lon <= b.TopRight.Lon
}

// LocationQuery is the body of a location search.
type LocationQuery struct {
	City           string          `json:"city,omitempty"`
	States         []string        `json:"states,omitempty"`
	GeoBoundingBox *GeoBoundingBox `json:"geoBoundingBox,omitempty"`
	Size           int             `json:"size,omitempty"`
	From           int             `json:"from,omitempty"`
}

// LocationResult is the response of a location search.
type LocationResult struct {
	Results []Location `json:"results"`
	Total   int        `json:"total"`
}

// ZipCodes returns the zip code of every result in order.
func (r LocationResult) ZipCodes() []string {
	zips := make([]string, 0, len(r.Results))
	for _, loc := range r.Results {
		zips = append(zips, loc.ZipCode)
	}
	return zips
}
