package hapi

import (
	"time"

	"ipccli/pkg/contracts/domain"
)

// Duplicate annotations, appended to the losing observation's error list.
const (
	errEarlierAnalysis = "duplicate row with earlier date of analysis excluded"
	errLowerPopulation = "duplicate row with lower population analyzed excluded"
	errDuplicate       = "duplicate row excluded"
)

// dupKey identifies one logical observation. The same (location, projection,
// period) can be reported under multiple raw analyses; only one report may
// survive unannotated.
type dupKey struct {
	countryISO3        string
	admin1Code         string
	admin2Code         string
	providerAdmin1Name string
	providerAdmin2Name string
	ipcType            string
	periodStart        string
}

// observation is one (location, projection) slice of a wide row, the unit of
// duplicate resolution. The analyzed population stands in for the whole
// observation when breaking population ties.
type observation struct {
	key          dupKey
	analysisDate time.Time
	analyzed     *float64
	resolution   Resolution
	row          *domain.Row
	level        int
	projection   string
	periodStart  string
	periodEnd    string
	errors       []string
}

// resolveDuplicates annotates every observation that loses its key group.
// Nothing is removed: losers stay in the stream carrying an error string.
// Tie-break order is latest analysis date, then highest analyzed population,
// then first encounter.
func resolveDuplicates(observations []*observation) {
	groups := make(map[dupKey][]*observation)
	for _, obs := range observations {
		groups[obs.key] = append(groups[obs.key], obs)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		var latest time.Time
		for _, obs := range group {
			if obs.analysisDate.After(latest) {
				latest = obs.analysisDate
			}
		}
		survivors := group[:0:0]
		for _, obs := range group {
			if obs.analysisDate.Before(latest) {
				obs.errors = append(obs.errors, errEarlierAnalysis)
			} else {
				survivors = append(survivors, obs)
			}
		}

		best := -1.0
		for _, obs := range survivors {
			if obs.analyzed != nil && *obs.analyzed > best {
				best = *obs.analyzed
			}
		}
		remaining := survivors[:0:0]
		for _, obs := range survivors {
			value := -1.0
			if obs.analyzed != nil {
				value = *obs.analyzed
			}
			if value < best {
				obs.errors = append(obs.errors, errLowerPopulation)
			} else {
				remaining = append(remaining, obs)
			}
		}

		// Exact ties keep the first encountered; upstream array order is
		// not a documented contract, but it is at least deterministic.
		for _, obs := range remaining[1:] {
			obs.errors = append(obs.errors, errDuplicate)
		}
	}
}
