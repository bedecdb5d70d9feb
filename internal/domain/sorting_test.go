package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortField_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		field SortField
		want  bool
	}{
		{"valid breed", SortByBreed, true},
		{"valid name", SortByName, true},
		{"valid age", SortByAge, true},
		{"valid location", SortByLocation, true},
		{"invalid", SortField("weight"), false},
		{"invalid empty", SortField(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.IsValid())
		})
	}
}

func TestSortField_Next(t *testing.T) {
	assert.Equal(t, SortByName, SortByBreed.Next())
	assert.Equal(t, SortByBreed, SortByLocation.Next())
	assert.Equal(t, SortByBreed, SortField("bogus").Next())
}

func TestSortDirection_Toggle(t *testing.T) {
	assert.Equal(t, SortDesc, SortAsc.Toggle())
	assert.Equal(t, SortAsc, SortDesc.Toggle())
}

func TestSortSpec_Token(t *testing.T) {
	assert.Equal(t, "breed:asc", DefaultSort().Token())
	assert.Equal(t, "age:desc", SortSpec{Field: SortByAge, Direction: SortDesc}.Token())
}

func TestSortSpec_Validate(t *testing.T) {
	require.NoError(t, DefaultSort().Validate())

	err := SortSpec{Field: "weight", Direction: SortAsc}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSortField)

	err = SortSpec{Field: SortByName, Direction: "up"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSortDirection)
}

func TestParseSort(t *testing.T) {
	f, err := ParseSortField(" Name ")
	require.NoError(t, err)
	assert.Equal(t, SortByName, f)

	_, err = ParseSortField("weight")
	assert.ErrorIs(t, err, ErrInvalidSortField)

	d, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, d)

	_, err = ParseSortDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidSortDirection)
}
