package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidAgeRange indicates a range whose minimum exceeds its maximum.
var ErrInvalidAgeRange = errors.New("invalid age range")

// AgeRange is an inclusive age interval in years.
type AgeRange struct {
	Min int
	Max int
}

// Validate checks Min <= Max and that neither bound is negative.
func (r AgeRange) Validate() error {
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: %d-%d", ErrInvalidAgeRange, r.Min, r.Max)
	}
	return nil
}

// Clamp restricts r to bounds. A range that ends up inverted collapses onto
// the nearest bound.
func (r AgeRange) Clamp(bounds AgeRange) AgeRange {
	out := AgeRange{Min: max(r.Min, bounds.Min), Max: min(r.Max, bounds.Max)}
	if out.Min > bounds.Max {
		out.Min = bounds.Max
	}
	if out.Max < bounds.Min {
		out.Max = bounds.Min
	}
	if out.Min > out.Max {
		out.Min = out.Max
	}
	return out
}

// String renders the range as "min-max".
func (r AgeRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// FilterState holds the facet selections of a search.
type FilterState struct {
	Breeds       []string
	AgeRange     AgeRange
	Zip          string
	RadiusMeters float64
	States       []string
}

// DefaultFilterState returns an unrestricted filter over the given age bounds.
func DefaultFilterState(bounds AgeRange) FilterState {
	return FilterState{AgeRange: bounds}
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	f.Breeds = slices.Clone(f.Breeds)
	f.States = slices.Clone(f.States)
	return f
}

// Equal compares two filter states, treating nil and empty sets alike.
func (f FilterState) Equal(o FilterState) bool {
	return slices.Equal(f.Breeds, o.Breeds) &&
		slices.Equal(f.States, o.States) &&
		f.AgeRange == o.AgeRange &&
		f.Zip == o.Zip &&
		f.RadiusMeters == o.RadiusMeters
}

// NormalizeSet trims values, drops empties and duplicates, and keeps the first
// occurrence order. It returns nil for an empty result.
func NormalizeSet(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NormalizeStates upper-cases region codes before normalizing the set.
func NormalizeStates(states []string) []string {
	upper := make([]string, len(states))
	for i, s := range states {
		upper[i] = strings.ToUpper(s)
	}
	return NormalizeSet(upper)
}
