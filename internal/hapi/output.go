package hapi

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ipccli/internal/config"
	"ipccli/internal/country"
	"ipccli/internal/dataprocessing"
	"ipccli/internal/exporter"
	"ipccli/pkg/contracts/domain"
)

// Filename is the harmonized export's output file.
const Filename = "hdx_hapi_food_security_global.csv"

// Output builds the harmonized table from the accumulated all-history wide
// tables. It runs strictly after the per-country loop: the bundle must
// already hold every country's rows.
type Output struct {
	resolver  *Resolver
	countries *country.Lookup
	logger    *slog.Logger

	datasetID   string
	resourceIDs map[int]string
}

// NewOutput creates the harmonized-export stage. Dataset and resource
// identifiers are minted per run.
func NewOutput(resolver *Resolver, countries *country.Lookup, logger *slog.Logger) *Output {
	if logger == nil {
		logger = slog.Default()
	}
	return &Output{
		resolver:  resolver,
		countries: countries,
		logger:    logger,
		datasetID: uuid.NewString(),
		resourceIDs: map[int]string{
			0: uuid.NewString(),
			1: uuid.NewString(),
			2: uuid.NewString(),
		},
	}
}

// Process turns the bundle's all-history wide tables into the harmonized
// record stream: classification, pcode resolution, duplicate reconciliation,
// then flattening to one record per phase.
func (o *Output) Process(bundle *domain.Bundle) ([]*domain.FoodSecurityRecord, error) {
	tables := []struct {
		level int
		rows  []*domain.Row
	}{
		{0, bundle.All.Country.Wide},
		{1, bundle.All.Group.Wide},
		{2, bundle.All.Area.Wide},
	}

	countryStatus := make(map[string]string)
	var observations []*observation
	for _, table := range tables {
		for _, row := range table.rows {
			countryISO3 := row.String("Country")
			analysisDate, err := dataprocessing.ParseMonthYear(row.String("Date of analysis"))
			if err != nil {
				return nil, err
			}
			resolution := o.resolver.Resolve(countryISO3, table.level,
				row.String("Level 1"), row.String("Area"))
			if resolution.Status != "" {
				countryStatus[countryISO3] = resolution.Status
			}

			for _, proj := range domain.Projections {
				start := row.String(proj.Name + " from")
				if start == "" {
					continue
				}
				projection := strings.ToLower(proj.Name)
				observations = append(observations, &observation{
					key: dupKey{
						countryISO3:        countryISO3,
						admin1Code:         resolution.Admin1Code,
						admin2Code:         resolution.Admin2Code,
						providerAdmin1Name: resolution.ProviderAdmin1Name,
						providerAdmin2Name: resolution.ProviderAdmin2Name,
						ipcType:            projection,
						periodStart:        start,
					},
					analysisDate: analysisDate,
					analyzed:     row.Number("Population analyzed " + projection),
					resolution:   resolution,
					row:          row,
					level:        table.level,
					projection:   projection,
					periodStart:  start,
					periodEnd:    row.String(proj.Name + " to"),
				})
			}
		}
	}

	resolveDuplicates(observations)

	var records []*domain.FoodSecurityRecord
	for _, obs := range observations {
		records = append(records, o.flatten(obs)...)
	}

	for _, countryISO3 := range sortedKeys(countryStatus) {
		o.logger.Info("country admin interpretation",
			slog.String("country", countryISO3),
			slog.String("status", countryStatus[countryISO3]))
	}
	return records, nil
}

// flatten emits one record per phase the observation has a population for.
// Warnings come from admin resolution, errors from duplicate reconciliation.
func (o *Output) flatten(obs *observation) []*domain.FoodSecurityRecord {
	hrp := yesNo(o.countries.HasHRP(obs.key.countryISO3))
	gho := yesNo(o.countries.InGHO(obs.key.countryISO3))

	var records []*domain.FoodSecurityRecord
	for _, phase := range domain.Phases {
		var population, fraction *float64
		if phase.Label == "all" {
			population = obs.analyzed
			one := 1.0
			fraction = &one
		} else {
			population = obs.row.Number(fmt.Sprintf("Phase %s number %s", phase.Label, obs.projection))
			fraction = obs.row.Number(fmt.Sprintf("Phase %s percentage %s", phase.Label, obs.projection))
		}
		if population == nil {
			continue
		}
		records = append(records, &domain.FoodSecurityRecord{
			LocationCode:              obs.key.countryISO3,
			HasHRP:                    hrp,
			InGHO:                     gho,
			ProviderAdmin1Name:        obs.resolution.ProviderAdmin1Name,
			ProviderAdmin2Name:        obs.resolution.ProviderAdmin2Name,
			Admin1Code:                obs.resolution.Admin1Code,
			Admin1Name:                obs.resolution.Admin1Name,
			Admin2Code:                obs.resolution.Admin2Code,
			Admin2Name:                obs.resolution.Admin2Name,
			AdminLevel:                obs.resolution.AdminLevel,
			IPCPhase:                  phase.Label,
			IPCType:                   obs.projection,
			PopulationInPhase:         population,
			PopulationFractionInPhase: fraction,
			ReferencePeriodStart:      obs.periodStart,
			ReferencePeriodEnd:        obs.periodEnd,
			DatasetID:                 o.datasetID,
			ResourceID:                o.resourceIDs[obs.level],
			Warnings:                  obs.resolution.Warnings,
			Errors:                    obs.errors,
		})
	}
	return records
}

// Emit processes the bundle and writes the harmonized CSV, returning its
// dataset metadata. An empty record stream is a soft failure: nothing is
// written and a nil dataset returned.
func (o *Output) Emit(writer *exporter.CSVWriter, cfg config.ExportConfig, bundle *domain.Bundle) (*domain.Dataset, error) {
	records, err := o.Process(bundle)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		o.logger.Warn("table has no data", slog.String("filename", Filename))
		return nil, nil
	}

	rows := make([]*domain.Row, len(records))
	for i, record := range records {
		rows[i] = record.ToRow()
	}
	path, err := writer.WriteTable(Filename, domain.FoodSecurityColumns, config.HAPIHXLTags(), rows)
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Name:            "hdx-hapi-food-security",
		Title:           "HDX HAPI - Food Security, Nutrition & Poverty: Food Security",
		Maintainer:      cfg.Maintainer,
		Organization:    cfg.Organization,
		UpdateFrequency: "As needed",
		Subnational:     true,
		Locations:       []string{"world"},
		Tags:            []string{"food security", "hxl"},
		TimePeriodStart: bundle.StartDate,
		TimePeriodEnd:   bundle.EndDate,
		Resources: []domain.Resource{{
			Name:        Filename,
			Description: "Harmonized food security data with HXL tags",
			Format:      "csv",
			Path:        path,
		}},
	}, nil
}

func yesNo(value bool) string {
	if value {
		return "Y"
	}
	return "N"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
