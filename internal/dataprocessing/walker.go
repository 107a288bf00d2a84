package dataprocessing

import (
	"log/slog"

	"ipccli/pkg/contracts/domain"
)

// Walker recurses through one analysis's country - group - area tree,
// building base identity rows at each level and dispatching to the row
// builder.
type Walker struct {
	builder *RowBuilder
	logger  *slog.Logger
}

// NewWalker creates a walker.
func NewWalker(logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{builder: NewRowBuilder(), logger: logger}
}

// baseRow returns the identity columns shared by every row of the analysis.
func baseRow(analysis domain.Record, countryISO3 string) *domain.Row {
	row := domain.NewRow()
	row.Set("Date of analysis", analysis.String("analysis_date"))
	row.Set("Country", countryISO3)
	row.Set("Total country population", deref(analysis.Number("population")))
	return row
}

// Walk builds the analysis's rows into tables: one country-level row set,
// plus group and area row sets where the tree provides them. A nil or
// missing "areas" field is upstream malformation: the subtree is skipped
// with an error log, the rest of the analysis still processes.
func (w *Walker) Walk(analysis domain.Record, countryISO3 string, period *TimePeriod, tables *domain.Tables) error {
	base := baseRow(analysis, countryISO3)

	longs, wide, err := w.builder.Build(base, period, analysis, nil)
	if err != nil {
		return err
	}
	tables.Country.Long = append(tables.Country.Long, longs...)
	tables.Country.Wide = append(tables.Country.Wide, wide)

	return w.walkSubnational(analysis, countryISO3, base, period, tables)
}

func (w *Walker) walkSubnational(
	analysis domain.Record,
	countryISO3 string,
	base *domain.Row,
	period *TimePeriod,
	tables *domain.Tables,
) error {
	groups, _ := analysis.Records("groups")
	if len(groups) == 0 {
		// No admin 1 layer: the analysis's own areas sit directly under
		// the country with a null Level 1.
		return w.walkAreas(analysis, countryISO3, base, analysis, period, tables)
	}

	for _, group := range groups {
		groupRow := base.Clone()
		groupRow.Set("Level 1", group.String("name"))

		longs, wide, err := w.builder.Build(groupRow, period, group, analysis)
		if err != nil {
			return err
		}
		tables.Group.Long = append(tables.Group.Long, longs...)
		tables.Group.Wide = append(tables.Group.Wide, wide)

		if group.Has("areas") {
			if err := w.walkAreas(group, countryISO3, groupRow, analysis, period, tables); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) walkAreas(
	node domain.Record,
	countryISO3 string,
	admRow *domain.Row,
	analysis domain.Record,
	period *TimePeriod,
	tables *domain.Tables,
) error {
	areas, present := node.Records("areas")
	if !present || areas == nil {
		w.logger.Error("analysis has blank areas field",
			slog.String("country", countryISO3),
			slog.String("analysis", analysis.String("title")))
		return nil
	}

	for _, area := range areas {
		areaRow := admRow.Clone()
		if !areaRow.Has("Level 1") {
			areaRow.Set("Level 1", nil)
		}
		areaRow.Set("Area", area.String("name"))

		longs, wide, err := w.builder.Build(areaRow, period, area, analysis)
		if err != nil {
			return err
		}
		tables.Area.Long = append(tables.Area.Long, longs...)
		tables.Area.Wide = append(tables.Area.Wide, wide)
	}
	return nil
}
