package dataprocessing

import (
	"fmt"
	"strings"

	"ipccli/pkg/contracts/domain"
)

// RowBuilder flattens one location node (a whole-country analysis, a group
// or an area) into long-form and wide-form rows across the three projection
// windows and seven phases.
type RowBuilder struct{}

// NewRowBuilder creates a row builder.
func NewRowBuilder() *RowBuilder {
	return &RowBuilder{}
}

// Build emits the location's rows. base carries the already-known identity
// columns and is not modified. analysis, when non-nil, supplies validity
// periods for locations that do not carry their own (bare areas attached
// directly under an analysis). period is widened by every parsed range.
//
// One long row is emitted per (projection, phase) where the phase population
// is present AND the projection has a validity period; combinations failing
// either condition are dropped, not emitted with nulls. Exactly one wide row
// is emitted per call, carrying the full from/to and phase column set for
// every projection, nil-valued where the feed has no figure.
func (b *RowBuilder) Build(
	base *domain.Row,
	period *TimePeriod,
	location domain.Record,
	analysis domain.Record,
) ([]*domain.Row, *domain.Row, error) {
	if analysis == nil {
		analysis = location
	}

	var longs []*domain.Row
	wide := base.Clone()

	for _, proj := range domain.Projections {
		periodKey := proj.Key + "_period_dates"
		periodDates := location.String(periodKey)
		if periodDates == "" {
			periodDates = analysis.String(periodKey)
		}

		var periodStart, periodEnd any
		if periodDates != "" {
			start, end, err := period.ParseDateRange(periodDates)
			if err != nil {
				return nil, nil, err
			}
			periodStart, periodEnd = start, end
		}

		projName := strings.ToLower(proj.Name)
		wide.Set(fmt.Sprintf("%s from", proj.Name), periodStart)
		wide.Set(fmt.Sprintf("%s to", proj.Name), periodEnd)

		for _, phase := range domain.Phases {
			affected := location.Number(phase.PopulationKey(proj))

			// The feed does not report a percentage for the total
			// analyzed population; it is 1.0 by definition whenever the
			// projection is populated.
			var percentage *float64
			if phase.Label == "all" {
				one := 1.0
				percentage = &one
			} else {
				percentage = location.Number(phase.PercentageKey(proj))
			}

			var colName string
			if phase.Label == "all" {
				colName = fmt.Sprintf("Population analyzed %s", projName)
			} else {
				colName = fmt.Sprintf("Phase %s number %s", phase.Label, projName)
			}
			wide.Set(colName, deref(affected))
			if phase.Label != "all" {
				wide.Set(fmt.Sprintf("Phase %s percentage %s", phase.Label, projName), deref(percentage))
			}

			if affected != nil && periodDates != "" {
				row := base.Clone()
				row.Set("Validity period", projName)
				row.Set("From", periodStart)
				row.Set("To", periodEnd)
				row.Set("Phase", phase.Label)
				row.Set("Number", *affected)
				row.Set("Percentage", deref(percentage))
				longs = append(longs, row)
			}
		}
	}

	return longs, wide, nil
}

// deref unwraps an optional number for storage in a row, keeping nil for
// absent values.
func deref(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
