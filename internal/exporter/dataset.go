package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ipccli/internal/config"
	"ipccli/internal/errors"
	"ipccli/pkg/contracts/domain"
)

// datasetTags are the catalog tags every dataset and showcase carries.
var datasetTags = []string{
	"hxl",
	"food security",
	"integrated food security phase classification-ipc",
}

// DatasetTitle returns the catalog name and title for a country's dataset.
func DatasetTitle(countryName string) (name, title string) {
	title = fmt.Sprintf("%s: Acute Food Insecurity Country Data", countryName)
	return slugify(title), title
}

// newDataset builds the catalog metadata shell for one artifact set.
// countryISO3 is empty for the global set.
func newDataset(cfg config.ExportConfig, countryISO3, countryName string, bundle *domain.Bundle) *domain.Dataset {
	var notes string
	var locations []string
	if countryISO3 != "" {
		notes = fmt.Sprintf("There is also a [global dataset](%s).", cfg.GlobalDatasetURL)
		locations = []string{strings.ToLower(countryISO3)}
	} else {
		notes = fmt.Sprintf("There are also [country datasets](%s)", cfg.OrganizationURL)
		locations = []string{"world"}
	}
	name, title := DatasetTitle(countryName)
	return &domain.Dataset{
		Name:            name,
		Title:           title,
		Notes:           notes,
		Maintainer:      cfg.Maintainer,
		Organization:    cfg.Organization,
		UpdateFrequency: "As needed",
		Subnational:     true,
		Locations:       locations,
		Tags:            datasetTags,
		TimePeriodStart: bundle.StartDate,
		TimePeriodEnd:   bundle.EndDate,
	}
}

// newShowcase picks the showcase link for a dataset: the IPC-CH dashboard for
// the global set, the CH regional page for Cadre Harmonisé countries, the
// country analysis page otherwise.
func newShowcase(cfg config.ExportConfig, countryISO3, countryName string, dataset *domain.Dataset) *domain.Showcase {
	var notes, url string
	switch {
	case countryISO3 == "":
		notes = "IPC-CH Dashboard"
		url = cfg.DashboardURL
	case containsString(cfg.CHCountries, countryISO3):
		notes = "CH regional page on IPC website with map and reports"
		url = cfg.CHShowcaseURL
	default:
		notes = fmt.Sprintf("Access all of IPC's analyses for %s", countryName)
		url = cfg.ShowcaseURL + countryISO3
	}
	return &domain.Showcase{
		Name:     dataset.Name + "-showcase",
		Title:    dataset.Title + " showcase",
		Notes:    notes,
		URL:      url,
		ImageURL: cfg.ThumbnailURL,
		Tags:     datasetTags,
	}
}

// WriteMetadata writes a dataset and its showcase as a JSON sidecar next to
// the dataset's files.
func WriteMetadata(outDir string, dataset *domain.Dataset, showcase *domain.Showcase) (string, error) {
	path := filepath.Join(outDir, dataset.Name+".json")
	payload := struct {
		Dataset  *domain.Dataset  `json:"dataset"`
		Showcase *domain.Showcase `json:"showcase,omitempty"`
	}{Dataset: dataset, Showcase: showcase}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", errors.NewStorageError("failed to encode dataset metadata", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", errors.NewStorageError(
			fmt.Sprintf("failed to write dataset metadata %s", path), err)
	}
	return path, nil
}

// slugify lowers a title into a hyphenated catalog name.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
