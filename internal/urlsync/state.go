package urlsync

import (
	"net/url"
	"strings"

	"github.com/pawfetch/pawfetch/internal/domain"
	"github.com/pawfetch/pawfetch/internal/search"
)

func decodeInto[T any](v url.Values, param string, c Codec[T], dst *T) bool {
	raw := v.Get(param)
	if raw == "" {
		return false
	}
	val, ok := c.Decode(raw)
	if ok {
		*dst = val
	}
	return ok
}

// Hydrate decodes v over base. Missing or malformed parameters keep the
// value from base.
func Hydrate(v url.Values, base search.State) search.State {
	st := base
	st.Filters = base.Filters.Clone()
	decodeInto(v, ParamBreeds, ListCodec, &st.Filters.Breeds)
	if decodeInto(v, ParamAge, AgeCodec, &st.Filters.AgeRange) {
		st.AgeSet = true
	}
	decodeInto(v, ParamZip, ZipCodec, &st.Filters.Zip)
	decodeInto(v, ParamRadius, RadiusCodec, &st.Filters.RadiusMeters)
	if decodeInto(v, ParamStates, ListCodec, &st.Filters.States) {
		st.Filters.States = domain.NormalizeStates(st.Filters.States)
	}
	decodeInto(v, ParamSortBy, SortFieldCodec, &st.Sort.Field)
	decodeInto(v, ParamSortDir, SortDirCodec, &st.Sort.Direction)
	decodeInto(v, ParamFrom, OffsetCodec, &st.Offset)
	return st
}

// Reflect encodes the parts of st that differ from the defaults over bounds.
func Reflect(st search.State, bounds domain.AgeRange) url.Values {
	v := url.Values{}
	def := search.DefaultState(bounds)
	if len(st.Filters.Breeds) > 0 {
		v.Set(ParamBreeds, ListCodec.Encode(st.Filters.Breeds))
	}
	if st.Filters.AgeRange != bounds {
		v.Set(ParamAge, AgeCodec.Encode(st.Filters.AgeRange))
	}
	if st.Filters.Zip != "" {
		v.Set(ParamZip, ZipCodec.Encode(st.Filters.Zip))
	}
	if st.Filters.RadiusMeters > 0 {
		v.Set(ParamRadius, RadiusCodec.Encode(st.Filters.RadiusMeters))
	}
	if len(st.Filters.States) > 0 {
		v.Set(ParamStates, ListCodec.Encode(st.Filters.States))
	}
	if st.Sort.Field != def.Sort.Field {
		v.Set(ParamSortBy, SortFieldCodec.Encode(st.Sort.Field))
	}
	if st.Sort.Direction != def.Sort.Direction {
		v.Set(ParamSortDir, SortDirCodec.Encode(st.Sort.Direction))
	}
	if st.Offset > 0 {
		v.Set(ParamFrom, OffsetCodec.Encode(st.Offset))
	}
	return v
}

// IsReset reports whether v carries the reset marker.
func IsReset(v url.Values) bool {
	return v.Get(ParamReset) == "1"
}

// SearchPath is the route the query string belongs to.
const SearchPath = "/search"

// Link renders a shareable link for v under base. An empty base yields a
// path-only link.
func Link(base string, v url.Values) string {
	link := strings.TrimRight(base, "/") + SearchPath
	if q := v.Encode(); q != "" {
		link += "?" + q
	}
	return link
}

// ParseLink extracts the query of a link produced by Link, a full URL, or a
// bare query string.
func ParseLink(link string) (url.Values, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") && strings.Contains(link, "=") {
		return url.ParseQuery(link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	return u.Query(), nil
}
