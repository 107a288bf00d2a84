package exporter

import (
	"fmt"
	"log/slog"
	"strings"

	"ipccli/internal/config"
	"ipccli/internal/country"
	"ipccli/pkg/contracts/domain"
)

// Emitter turns one bundle (per-country or global) into its artifact set:
// HXL-tagged CSVs named ipc_{scope}_{table}_{form}[_latest].csv, the GeoJSON
// resource for country sets, and the dataset/showcase metadata sidecar.
type Emitter struct {
	writer    *CSVWriter
	cfg       config.ExportConfig
	countries *country.Lookup
	logger    *slog.Logger
}

// NewEmitter creates an emitter writing through w.
func NewEmitter(w *CSVWriter, cfg config.ExportConfig, countries *country.Lookup, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{writer: w, cfg: cfg, countries: countries, logger: logger}
}

// EmitCountry writes one country's artifact set. The caller is expected to
// have checked the output's Updated flag. Returns (nil, nil, nil) when the
// country has no latest national data, which skips the whole set.
func (e *Emitter) EmitCountry(output *domain.CountryOutput) (*domain.Dataset, *domain.Showcase, error) {
	return e.emit(output.CountryISO3, output.GeoJSONPath, &output.Bundle)
}

// EmitGlobal writes the accumulated cross-country artifact set.
func (e *Emitter) EmitGlobal(bundle *domain.Bundle) (*domain.Dataset, *domain.Showcase, error) {
	return e.emit("", "", bundle)
}

func (e *Emitter) emit(countryISO3, geojsonPath string, bundle *domain.Bundle) (*domain.Dataset, *domain.Showcase, error) {
	scope := "global"
	countryName := "Global"
	if countryISO3 != "" {
		scope = strings.ToLower(countryISO3)
		countryName = e.countries.Name(countryISO3)
	}

	dataset := newDataset(e.cfg, countryISO3, countryName, bundle)
	e.logger.Info("creating dataset", slog.String("title", dataset.Title))

	if geojsonPath != "" {
		dataset.Resources = append(dataset.Resources, domain.Resource{
			Name:        fmt.Sprintf("ipc_%s.geojson", scope),
			Description: "IPC GeoJSON for latest analysis",
			Format:      "geojson",
			Path:        geojsonPath,
		})
	}

	// The latest national long table anchors the set: without it there is
	// nothing worth publishing.
	filename := fmt.Sprintf("ipc_%s_national_long_latest.csv", scope)
	if len(bundle.Latest.Country.Long) == 0 {
		e.logger.Warn("table has no data", slog.String("filename", filename))
		return nil, nil, nil
	}
	if err := e.addResource(dataset, filename,
		"Latest IPC national data in long form with HXL tags",
		config.LongHXLTags(), bundle.Latest.Country.Long); err != nil {
		return nil, nil, err
	}

	// One row per country means a single-row wide table; only the global
	// set has enough national rows for the wide latest form to be useful.
	if len(bundle.Latest.Country.Wide) > 1 {
		if err := e.addResource(dataset,
			fmt.Sprintf("ipc_%s_national_wide_latest.csv", scope),
			"Latest IPC national data in wide form with HXL tags",
			config.WideHXLTags(), bundle.Latest.Country.Wide); err != nil {
			return nil, nil, err
		}
	}

	showcase := newShowcase(e.cfg, countryISO3, countryName, dataset)

	if err := e.emitSubnational(dataset, scope, countryISO3, &bundle.Latest, "_latest", "Latest"); err != nil {
		return nil, nil, err
	}

	// A single all-history wide national row means the country has exactly
	// one analysis; the history tables would duplicate the latest ones.
	if len(bundle.All.Country.Wide) == 1 {
		return dataset, showcase, nil
	}

	if err := e.addResource(dataset,
		fmt.Sprintf("ipc_%s_national_long.csv", scope),
		"All IPC national data in long form with HXL tags",
		config.LongHXLTags(), bundle.All.Country.Long); err != nil {
		return nil, nil, err
	}
	if err := e.addResource(dataset,
		fmt.Sprintf("ipc_%s_national_wide.csv", scope),
		"All IPC national data in wide form with HXL tags",
		config.WideHXLTags(), bundle.All.Country.Wide); err != nil {
		return nil, nil, err
	}
	if err := e.emitSubnational(dataset, scope, countryISO3, &bundle.All, "", "All"); err != nil {
		return nil, nil, err
	}

	return dataset, showcase, nil
}

// emitSubnational writes the level 1 and area tables of one temporal scope,
// skipping empty ones. A country with neither is worth an error log.
func (e *Emitter) emitSubnational(
	dataset *domain.Dataset,
	scope, countryISO3 string,
	tables *domain.Tables,
	suffix, label string,
) error {
	if len(tables.Group.Long) > 0 {
		if err := e.addResource(dataset,
			fmt.Sprintf("ipc_%s_level1_long%s.csv", scope, suffix),
			fmt.Sprintf("%s IPC level 1 data in long form with HXL tags", label),
			config.LongHXLTags(), tables.Group.Long); err != nil {
			return err
		}
	}
	if len(tables.Group.Wide) > 0 {
		if err := e.addResource(dataset,
			fmt.Sprintf("ipc_%s_level1_wide%s.csv", scope, suffix),
			fmt.Sprintf("%s IPC level 1 data in wide form with HXL tags", label),
			config.WideHXLTags(), tables.Group.Wide); err != nil {
			return err
		}
	}
	if len(tables.Area.Long) > 0 {
		if err := e.addResource(dataset,
			fmt.Sprintf("ipc_%s_area_long%s.csv", scope, suffix),
			fmt.Sprintf("%s IPC area data in long form with HXL tags", label),
			config.LongHXLTags(), tables.Area.Long); err != nil {
			return err
		}
	} else if len(tables.Group.Long) == 0 {
		e.logger.Error("no subnational data",
			slog.String("country", countryISO3),
			slog.String("scope", strings.ToLower(label)))
	}
	if len(tables.Area.Wide) > 0 {
		if err := e.addResource(dataset,
			fmt.Sprintf("ipc_%s_area_wide%s.csv", scope, suffix),
			fmt.Sprintf("%s IPC area data in wide form with HXL tags", label),
			config.WideHXLTags(), tables.Area.Wide); err != nil {
			return err
		}
	}
	return nil
}

// addResource writes one CSV table and appends its resource entry. The
// header is the union of all rows' columns in first-appearance order.
func (e *Emitter) addResource(
	dataset *domain.Dataset,
	filename, description string,
	tags map[string]string,
	rows []*domain.Row,
) error {
	headers := domain.UnionKeys(rows)
	path, err := e.writer.WriteTable(filename, headers, tags, rows)
	if err != nil {
		return err
	}
	dataset.Resources = append(dataset.Resources, domain.Resource{
		Name:        filename,
		Description: description,
		Format:      "csv",
		Path:        path,
	})
	return nil
}
