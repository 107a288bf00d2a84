package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipccli/pkg/contracts/domain"
)

func testBaseRow() *domain.Row {
	row := domain.NewRow()
	row.Set("Date of analysis", "May 2023")
	row.Set("Country", "AFG")
	row.Set("Total country population", 41000000.0)
	return row
}

func TestRowBuilder_LongRows(t *testing.T) {
	location := domain.Record{
		"current_period_dates": "May 2023 - Oct 2023",
		"estimated_population": 20000000.0,
		"p3plus":               6000000.0,
		"p3plus_percentage":    0.3,
		"phase4_population":    1000000.0,
		"phase4_percentage":    0.05,
	}

	longs, wide, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, nil)
	require.NoError(t, err)
	require.NotNil(t, wide)
	require.Len(t, longs, 3)

	all := longs[0]
	assert.Equal(t, "current", all.String("Validity period"))
	assert.Equal(t, "2023-05-01", all.String("From"))
	assert.Equal(t, "2023-10-31", all.String("To"))
	assert.Equal(t, "all", all.String("Phase"))
	assert.Equal(t, 20000000.0, all.Value("Number"))
	// The total analyzed population's percentage is always exactly 1.0.
	assert.Equal(t, 1.0, all.Value("Percentage"))

	p3plus := longs[1]
	assert.Equal(t, "3+", p3plus.String("Phase"))
	assert.Equal(t, 6000000.0, p3plus.Value("Number"))
	assert.Equal(t, 0.3, p3plus.Value("Percentage"))

	phase4 := longs[2]
	assert.Equal(t, "4", phase4.String("Phase"))
	assert.Equal(t, 1000000.0, phase4.Value("Number"))

	// Identity columns survive into every long row.
	assert.Equal(t, "AFG", phase4.String("Country"))
	assert.Equal(t, "May 2023", phase4.String("Date of analysis"))
}

func TestRowBuilder_NoPeriodSuppressesLongRows(t *testing.T) {
	// A populated phase value without any validity period yields no long
	// rows at all, but the wide row is still emitted with the value.
	location := domain.Record{
		"phase4_population": 500000.0,
	}

	longs, wide, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, nil)
	require.NoError(t, err)

	assert.Empty(t, longs)
	require.NotNil(t, wide)
	assert.Equal(t, 500000.0, wide.Value("Phase 4 number current"))
	assert.Nil(t, wide.Value("Current from"))
	assert.Nil(t, wide.Value("Current to"))
}

func TestRowBuilder_NullPopulationSuppressesLongRow(t *testing.T) {
	location := domain.Record{
		"current_period_dates": "May 2023 - Oct 2023",
		"estimated_population": 20000000.0,
		"phase5_population":    nil,
	}

	longs, _, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, nil)
	require.NoError(t, err)

	require.Len(t, longs, 1)
	assert.Equal(t, "all", longs[0].String("Phase"))
}

func TestRowBuilder_AnalysisPeriodFallback(t *testing.T) {
	// Bare areas attached directly under an analysis do not carry their own
	// period dates; the analysis's apply.
	location := domain.Record{
		"estimated_population_projected": 100000.0,
	}
	analysis := domain.Record{
		"projected_period_dates": "Nov 2023 - Apr 2024",
	}

	longs, wide, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, analysis)
	require.NoError(t, err)

	require.Len(t, longs, 1)
	assert.Equal(t, "first projection", longs[0].String("Validity period"))
	assert.Equal(t, "2023-11-01", longs[0].String("From"))
	assert.Equal(t, "2024-04-30", longs[0].String("To"))
	assert.Equal(t, "2023-11-01", wide.Value("First projection from"))
}

func TestRowBuilder_WideColumns(t *testing.T) {
	location := domain.Record{
		"current_period_dates":   "May 2023 - Oct 2023",
		"projected_period_dates": "Nov 2023 - Apr 2024",
		"estimated_population":   20000000.0,
		"p3plus":                 6000000.0,
		"p3plus_projected":       7000000.0,
		"p3plus_percentage":      0.3,
	}

	_, wide, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, nil)
	require.NoError(t, err)

	assert.Equal(t, "2023-05-01", wide.Value("Current from"))
	assert.Equal(t, "2023-10-31", wide.Value("Current to"))
	assert.Equal(t, 20000000.0, wide.Value("Population analyzed current"))
	assert.Equal(t, 6000000.0, wide.Value("Phase 3+ number current"))
	assert.Equal(t, 0.3, wide.Value("Phase 3+ percentage current"))
	assert.Equal(t, 7000000.0, wide.Value("Phase 3+ number first projection"))

	// The analyzed-population column never gets a percentage twin.
	assert.False(t, wide.Has("Phase all percentage current"))
	// Unreported values still get their column, holding nil.
	assert.True(t, wide.Has("Phase 5 number current"))
	assert.Nil(t, wide.Value("Phase 5 number current"))
}

func TestRowBuilder_WidensAccumulator(t *testing.T) {
	location := domain.Record{
		"current_period_dates":          "May 2023 - Oct 2023",
		"second_projected_period_dates": "May 2024 - Aug 2024",
	}

	tp := NewTimePeriod()
	_, _, err := NewRowBuilder().Build(testBaseRow(), tp, location, nil)
	require.NoError(t, err)

	start, end, ok := tp.Bounds()
	require.True(t, ok)
	assert.Equal(t, "2023-05-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-08-31", end.Format("2006-01-02"))
}

func TestRowBuilder_MalformedPeriod(t *testing.T) {
	location := domain.Record{
		"current_period_dates": "sometime soon",
	}

	_, _, err := NewRowBuilder().Build(testBaseRow(), NewTimePeriod(), location, nil)
	assert.Error(t, err)
}
