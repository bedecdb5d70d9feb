// Package urlsync mirrors the search state into a shareable query string
// and restores it from one.
package urlsync

import (
	"strconv"
	"strings"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// Query parameter names.
const (
	ParamBreeds  = "breeds"
	ParamAge     = "age"
	ParamZip     = "zip"
	ParamRadius  = "radius"
	ParamStates  = "states"
	ParamSortBy  = "sortBy"
	ParamSortDir = "sortDir"
	ParamFrom    = "from"
	ParamReset   = "reset"
)

// Codec converts one field to and from its query parameter text. Decode
// reports false when the text is not a valid encoding, in which case the
// field keeps its default.
type Codec[T any] struct {
	Encode func(T) string
	Decode func(string) (T, bool)
}

// ListCodec joins a set with commas.
var ListCodec = Codec[[]string]{
	Encode: func(v []string) string { return strings.Join(v, ",") },
	Decode: func(s string) ([]string, bool) {
		v := domain.NormalizeSet(strings.Split(s, ","))
		return v, len(v) > 0
	},
}

// AgeCodec renders an age range as "min-max".
var AgeCodec = Codec[domain.AgeRange]{
	Encode: domain.AgeRange.String,
	Decode: func(s string) (domain.AgeRange, bool) {
		lo, hi, ok := strings.Cut(s, "-")
		if !ok {
			return domain.AgeRange{}, false
		}
		minAge, err1 := strconv.Atoi(strings.TrimSpace(lo))
		maxAge, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil {
			return domain.AgeRange{}, false
		}
		r := domain.AgeRange{Min: minAge, Max: maxAge}
		return r, r.Validate() == nil
	},
}

// ZipCodec passes the zip code through trimmed.
var ZipCodec = Codec[string]{
	Encode: func(v string) string { return v },
	Decode: func(s string) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	},
}

// RadiusCodec renders meters in the shortest exact decimal form.
var RadiusCodec = Codec[float64]{
	Encode: func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	Decode: func(s string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v, err == nil && v > 0
	},
}

// SortFieldCodec accepts the known sort fields.
var SortFieldCodec = Codec[domain.SortField]{
	Encode: domain.SortField.String,
	Decode: func(s string) (domain.SortField, bool) {
		f, err := domain.ParseSortField(s)
		return f, err == nil
	},
}

// SortDirCodec accepts "asc" and "desc".
var SortDirCodec = Codec[domain.SortDirection]{
	Encode: domain.SortDirection.String,
	Decode: func(s string) (domain.SortDirection, bool) {
		d, err := domain.ParseSortDirection(s)
		return d, err == nil
	},
}

// OffsetCodec accepts non-negative integers.
var OffsetCodec = Codec[int]{
	Encode: strconv.Itoa,
	Decode: func(s string) (int, bool) {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		return v, err == nil && v >= 0
	},
}
