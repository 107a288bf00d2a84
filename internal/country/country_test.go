package country

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLookup_EmbeddedTable(t *testing.T) {
	lookup, err := NewLookup()
	require.NoError(t, err)

	assert.Equal(t, "AFG", lookup.ISO3FromISO2("AF"))
	assert.Equal(t, "AF", lookup.ISO2FromISO3("AFG"))
	assert.Equal(t, "Afghanistan", lookup.Name("AFG"))
	assert.True(t, lookup.HasHRP("AFG"))
	assert.True(t, lookup.InGHO("AFG"))

	// GHO without HRP
	assert.False(t, lookup.HasHRP("KEN"))
	assert.True(t, lookup.InGHO("KEN"))
}

func TestLookup_UnknownCodes(t *testing.T) {
	lookup, err := NewLookup()
	require.NoError(t, err)

	assert.Equal(t, "", lookup.ISO3FromISO2("XX"))
	assert.Equal(t, "", lookup.ISO2FromISO3("XXX"))
	assert.Equal(t, "XXX", lookup.Name("XXX"))
	assert.False(t, lookup.HasHRP("XXX"))
	assert.False(t, lookup.InGHO("XXX"))
}

func TestLookup_CaseInsensitive(t *testing.T) {
	lookup, err := NewLookup()
	require.NoError(t, err)

	assert.Equal(t, "AFG", lookup.ISO3FromISO2("af"))
	assert.Equal(t, "AF", lookup.ISO2FromISO3("afg"))
}

func TestNewLookupFromReader_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "header only",
			input: "iso2,iso3,name,hrp,gho\n",
		},
		{
			name:  "wrong column count",
			input: "iso2,iso3,name,hrp,gho\nAF,AFG,Afghanistan\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLookupFromReader(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
