package domain

// PageSpec is an offset page window. Offset is always a multiple of Size.
type PageSpec struct {
	Offset int
	Size   int
}

// Align snaps Offset down onto a page boundary and clamps it at zero.
func (p PageSpec) Align() PageSpec {
	if p.Size <= 0 {
		p.Size = 1
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Offset -= p.Offset % p.Size
	return p
}

// SearchQuery is the composed, read-only request sent to the search endpoint.
// A nil age bound means the bound is omitted.
type SearchQuery struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
	Size     int
	From     int
	Sort     string
}

// SearchResult is the ordered page of ids returned by a search.
type SearchResult struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}
