package admins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnits() []Unit {
	return []Unit{
		{CountryISO3: "MLI", Level: 1, PCode: "ML09", Name: "Ménaka"},
		{CountryISO3: "MLI", Level: 1, PCode: "ML07", Name: "Gao"},
		{CountryISO3: "MLI", Level: 2, PCode: "ML0901", Name: "Ménaka", ParentPCode: "ML09"},
		{CountryISO3: "MLI", Level: 2, PCode: "ML0701", Name: "Gao", ParentPCode: "ML07"},
		{CountryISO3: "MLI", Level: 2, PCode: "ML0702", Name: "Ansongo", ParentPCode: "ML07"},
		{CountryISO3: "AFG", Level: 1, PCode: "AF01", Name: "Kabul"},
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "accents stripped", input: "Ménaka", expected: "menaka"},
		{name: "case folded", input: "MENAKA", expected: "menaka"},
		{name: "punctuation collapsed", input: "Gao - Centre", expected: "gao centre"},
		{name: "whitespace trimmed", input: "  Kabul  ", expected: "kabul"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, foldName(tt.input))
		})
	}
}

func TestGetPCode_Exact(t *testing.T) {
	matcher := NewMatcher(testUnits())

	match := matcher.GetPCode("MLI", "menaka", 1, "")
	require.NotNil(t, match)
	assert.Equal(t, "ML09", match.PCode)
	assert.Equal(t, "Ménaka", match.Name)
	assert.True(t, match.Exact)
}

func TestGetPCode_FuzzyInexact(t *testing.T) {
	matcher := NewMatcher(testUnits())

	match := matcher.GetPCode("MLI", "Gao Region", 1, "")
	require.NotNil(t, match)
	assert.Equal(t, "ML07", match.PCode)
	assert.False(t, match.Exact)
}

func TestGetPCode_ParentRestriction(t *testing.T) {
	matcher := NewMatcher(testUnits())

	// "Ménaka" exists at level 2 under ML09; restricting to ML07 must not
	// return it via the fuzzy pass.
	match := matcher.GetPCode("MLI", "Ménaka", 2, "")
	require.NotNil(t, match)
	assert.Equal(t, "ML0901", match.PCode)
	assert.True(t, match.Exact)

	match = matcher.GetPCode("MLI", "Ansongo cercle", 2, "ML07")
	require.NotNil(t, match)
	assert.Equal(t, "ML0702", match.PCode)
	assert.False(t, match.Exact)
}

func TestGetPCode_NoMatch(t *testing.T) {
	matcher := NewMatcher(testUnits())

	assert.Nil(t, matcher.GetPCode("MLI", "Atlantis", 1, ""))
	assert.Nil(t, matcher.GetPCode("XXX", "Kabul", 1, ""))
	assert.Nil(t, matcher.GetPCode("MLI", "", 1, ""))
}

func TestNameForPCode(t *testing.T) {
	matcher := NewMatcher(testUnits())

	assert.Equal(t, "Kabul", matcher.NameForPCode("AF01"))
	assert.Equal(t, "", matcher.NameForPCode("ZZ99"))
}
