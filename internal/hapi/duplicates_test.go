package hapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func obs(date string, analyzed float64) *observation {
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return &observation{
		key: dupKey{
			countryISO3: "AFG",
			ipcType:     "current",
			periodStart: "2024-01-01",
		},
		analysisDate: d,
		analyzed:     &analyzed,
	}
}

func TestResolveDuplicates_LaterDateWins(t *testing.T) {
	earlier := obs("2024-01-01", 1000)
	later := obs("2024-03-01", 900)

	resolveDuplicates([]*observation{earlier, later})

	// The later analysis survives regardless of its lower population.
	assert.Empty(t, later.errors)
	assert.Equal(t, []string{"duplicate row with earlier date of analysis excluded"}, earlier.errors)
}

func TestResolveDuplicates_HigherPopulationWins(t *testing.T) {
	lower := obs("2024-03-01", 900)
	higher := obs("2024-03-01", 1000)

	resolveDuplicates([]*observation{lower, higher})

	assert.Empty(t, higher.errors)
	assert.Equal(t, []string{"duplicate row with lower population analyzed excluded"}, lower.errors)
}

func TestResolveDuplicates_TieKeepsFirstEncounter(t *testing.T) {
	first := obs("2024-03-01", 1000)
	second := obs("2024-03-01", 1000)

	resolveDuplicates([]*observation{first, second})

	assert.Empty(t, first.errors)
	assert.Equal(t, []string{"duplicate row excluded"}, second.errors)
}

func TestResolveDuplicates_DistinctKeysUntouched(t *testing.T) {
	a := obs("2024-01-01", 1000)
	b := obs("2024-03-01", 900)
	b.key.ipcType = "first projection"

	resolveDuplicates([]*observation{a, b})

	assert.Empty(t, a.errors)
	assert.Empty(t, b.errors)
}

func TestResolveDuplicates_NilAnalyzedLoses(t *testing.T) {
	missing := obs("2024-03-01", 0)
	missing.analyzed = nil
	present := obs("2024-03-01", 500)

	resolveDuplicates([]*observation{missing, present})

	assert.Empty(t, present.errors)
	assert.Equal(t, []string{"duplicate row with lower population analyzed excluded"}, missing.errors)
}
