package search

import (
	"slices"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// BuildQuery composes the remote search for st. Each age bound is sent only
// when it narrows the observed bounds, so a full range sends no age filter.
// zips must already be capped; an empty list sends no zip filter.
func BuildQuery(st State, bounds domain.AgeRange, zips []string, pageSize int) domain.SearchQuery {
	q := domain.SearchQuery{
		Breeds:   slices.Clone(st.Filters.Breeds),
		ZipCodes: slices.Clone(zips),
		Size:     pageSize,
		From:     st.Offset,
		Sort:     st.Sort.Token(),
	}
	if r := st.Filters.AgeRange; r.Min > bounds.Min {
		q.AgeMin = &r.Min
	}
	if r := st.Filters.AgeRange; r.Max < bounds.Max {
		q.AgeMax = &r.Max
	}
	return q
}
