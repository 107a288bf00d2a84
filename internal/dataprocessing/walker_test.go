package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipccli/pkg/contracts/domain"
)

func TestWalker_GroupsAndAreas(t *testing.T) {
	analysis := domain.Record{
		"title":                "Acute Food Insecurity May 2023",
		"analysis_date":        "May 2023",
		"population":           41000000.0,
		"current_period_dates": "May 2023 - Oct 2023",
		"estimated_population": 20000000.0,
		"groups": []any{
			map[string]any{
				"name":                 "Kabul",
				"estimated_population": 4000000.0,
				"areas": []any{
					map[string]any{
						"name":                 "Kabul City",
						"estimated_population": 3000000.0,
					},
					map[string]any{
						"name":                 "Paghman",
						"estimated_population": 500000.0,
					},
				},
			},
			map[string]any{
				"name":                 "Herat",
				"estimated_population": 2000000.0,
				"areas":                []any{},
			},
		},
	}

	var tables domain.Tables
	err := NewWalker(nil).Walk(analysis, "AFG", NewTimePeriod(), &tables)
	require.NoError(t, err)

	require.Len(t, tables.Country.Wide, 1)
	require.Len(t, tables.Country.Long, 1)
	assert.Equal(t, "AFG", tables.Country.Long[0].String("Country"))
	assert.False(t, tables.Country.Long[0].Has("Level 1"))

	require.Len(t, tables.Group.Wide, 2)
	assert.Equal(t, "Kabul", tables.Group.Wide[0].String("Level 1"))
	assert.Equal(t, "Herat", tables.Group.Wide[1].String("Level 1"))
	assert.False(t, tables.Group.Wide[0].Has("Area"))

	require.Len(t, tables.Area.Wide, 2)
	assert.Equal(t, "Kabul", tables.Area.Wide[0].String("Level 1"))
	assert.Equal(t, "Kabul City", tables.Area.Wide[0].String("Area"))
	assert.Equal(t, "Paghman", tables.Area.Wide[1].String("Area"))

	// Area periods fall back to the analysis, so long rows exist where the
	// area carries a population.
	require.Len(t, tables.Area.Long, 2)
	assert.Equal(t, "2023-05-01", tables.Area.Long[0].String("From"))
}

func TestWalker_NoGroups(t *testing.T) {
	// Countries without an admin 1 layer attach areas straight to the
	// analysis; their rows carry a null Level 1 column.
	analysis := domain.Record{
		"title":                "Acute Food Insecurity Mar 2023",
		"analysis_date":        "Mar 2023",
		"current_period_dates": "Mar 2023 - Jun 2023",
		"areas": []any{
			map[string]any{
				"name":                 "Banadir",
				"estimated_population": 2000000.0,
			},
		},
	}

	var tables domain.Tables
	err := NewWalker(nil).Walk(analysis, "SOM", NewTimePeriod(), &tables)
	require.NoError(t, err)

	assert.Empty(t, tables.Group.Wide)
	require.Len(t, tables.Area.Wide, 1)
	area := tables.Area.Wide[0]
	assert.True(t, area.Has("Level 1"))
	assert.Nil(t, area.Value("Level 1"))
	assert.Equal(t, "Banadir", area.String("Area"))
}

func TestWalker_BlankAreas(t *testing.T) {
	// A null areas field is upstream malformation: the subtree is skipped,
	// processing continues without error.
	analysis := domain.Record{
		"title":                "Acute Food Insecurity Jan 2023",
		"analysis_date":        "Jan 2023",
		"current_period_dates": "Jan 2023 - May 2023",
		"estimated_population": 1000000.0,
		"areas":                nil,
	}

	var tables domain.Tables
	err := NewWalker(nil).Walk(analysis, "CAF", NewTimePeriod(), &tables)
	require.NoError(t, err)

	require.Len(t, tables.Country.Wide, 1)
	assert.Empty(t, tables.Area.Wide)
	assert.Empty(t, tables.Area.Long)
}

func TestWalker_GroupWithoutAreasKey(t *testing.T) {
	// Groups lacking an areas key entirely contribute group rows only.
	analysis := domain.Record{
		"title":                "Acute Food Insecurity Feb 2023",
		"analysis_date":        "Feb 2023",
		"current_period_dates": "Feb 2023 - May 2023",
		"groups": []any{
			map[string]any{
				"name":                 "Tillaberi",
				"estimated_population": 300000.0,
			},
		},
	}

	var tables domain.Tables
	err := NewWalker(nil).Walk(analysis, "NER", NewTimePeriod(), &tables)
	require.NoError(t, err)

	require.Len(t, tables.Group.Wide, 1)
	assert.Empty(t, tables.Area.Wide)
}
