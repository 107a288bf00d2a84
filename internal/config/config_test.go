package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipccli/pkg/contracts/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://api.ipcinfo.org", cfg.Feed.BaseURL)
	assert.Equal(t, "data/ipc_state.db", cfg.Paths.StateFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Export.GlobalWorkbook)
	assert.Contains(t, cfg.Export.CHCountries, "NER")
	assert.Contains(t, cfg.AdminMatching.Adm1Only, "AFG")
	assert.Contains(t, cfg.AdminMatching.Adm2InLevel1, "BDI")
	assert.Contains(t, cfg.AdminMatching.IgnorePatterns, "displaced")
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
}

func TestValidate_RejectsBadBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Feed.BaseURL = "not a url"

	assert.Error(t, cfg.validate())
}

func TestMerge_EnvironmentWins(t *testing.T) {
	cfg := Default()
	cfg.Feed.BaseURL = "https://override.example.org"

	file := Default()
	file.Feed.BaseURL = "https://file.example.org"
	file.Paths.DataDir = "elsewhere"

	cfg.Paths.DataDir = ""
	cfg.merge(file)

	assert.Equal(t, "https://override.example.org", cfg.Feed.BaseURL)
	assert.Equal(t, "elsewhere", cfg.Paths.DataDir)
}

func TestLongHXLTags_CoverAllColumns(t *testing.T) {
	tags := LongHXLTags()
	for _, column := range []string{
		"Date of analysis", "Country", "Total country population",
		"Level 1", "Area", "Validity period", "From", "To",
		"Phase", "Number", "Percentage",
	} {
		assert.Contains(t, tags, column)
	}
}

func TestWideHXLTags_CoverProjectionPhaseGrid(t *testing.T) {
	tags := WideHXLTags()

	assert.Equal(t, "#date+start+current", tags["Current from"])
	assert.Equal(t, "#affected+num+analysed+current", tags["Population analyzed current"])
	assert.Equal(t, "#affected+num+p3plus+projected", tags["Phase 3+ number first projection"])
	assert.Equal(t, "#affected+pct+p4+second_projected", tags["Phase 4 percentage second projection"])

	// Every projection contributes its full phase grid.
	for _, proj := range domain.Projections {
		name := strings.ToLower(proj.Name)
		assert.Contains(t, tags, proj.Name+" from")
		assert.Contains(t, tags, proj.Name+" to")
		assert.Contains(t, tags, "Population analyzed "+name)
		for _, phase := range domain.Phases {
			if phase.Label == "all" {
				continue
			}
			assert.Contains(t, tags, "Phase "+phase.Label+" number "+name)
			assert.Contains(t, tags, "Phase "+phase.Label+" percentage "+name)
		}
	}
}

func TestHAPIHXLTags_MatchColumnOrder(t *testing.T) {
	tags := HAPIHXLTags()
	for _, column := range domain.FoodSecurityColumns {
		assert.Contains(t, tags, column)
	}
}
