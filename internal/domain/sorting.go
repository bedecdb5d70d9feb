package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSortField indicates a sort field outside the supported set.
	ErrInvalidSortField = errors.New("invalid sort field")
	// ErrInvalidSortDirection indicates a direction other than asc or desc.
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// SortField specifies which dog attribute results are ordered by.
type SortField string

const (
	SortByBreed    SortField = "breed"
	SortByName     SortField = "name"
	SortByAge      SortField = "age"
	SortByLocation SortField = "location"
)

// SortFields lists the supported fields in display order.
var SortFields = []SortField{SortByBreed, SortByName, SortByAge, SortByLocation}

// IsValid checks if the sort field is supported.
func (f SortField) IsValid() bool {
	switch f {
	case SortByBreed, SortByName, SortByAge, SortByLocation:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort field.
func (f SortField) String() string {
	return string(f)
}

// Next returns the field after f in SortFields, wrapping around.
func (f SortField) Next() SortField {
	for i, candidate := range SortFields {
		if candidate == f {
			return SortFields[(i+1)%len(SortFields)]
		}
	}
	return SortByBreed
}

// SortDirection specifies the sort direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid checks if the sort direction is valid.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// String returns the string representation of the sort direction.
func (d SortDirection) String() string {
	return string(d)
}

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// SortSpec is a field and a direction.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort returns breed ascending.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByBreed, Direction: SortAsc}
}

// Token renders the spec in the remote API form "field:direction".
func (s SortSpec) Token() string {
	return s.Field.String() + ":" + s.Direction.String()
}

// Validate checks both components.
func (s SortSpec) Validate() error {
	if !s.Field.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortField, s.Field)
	}
	if !s.Direction.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortDirection, s.Direction)
	}
	return nil
}

// ParseSortField parses a case-insensitive field name.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
	return f, nil
}

// ParseSortDirection parses a case-insensitive direction.
func ParseSortDirection(s string) (SortDirection, error) {
	d := SortDirection(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
	}
	return d, nil
}
