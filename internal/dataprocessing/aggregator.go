package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"ipccli/internal/country"
	"ipccli/internal/state"
	"ipccli/pkg/contracts/domain"
)

// Fetcher is the slice of the feed client the aggregator needs.
type Fetcher interface {
	BaseURL() string
	DownloadJSON(ctx context.Context, url string) (any, error)
	DownloadFile(ctx context.Context, url, filename string) (string, error)
}

// Aggregator drives the per-country processing loop: it discovers countries
// with IPC analyses, reshapes each country's feed into row tables, and
// accumulates every country's tables into one process-wide bundle.
type Aggregator struct {
	client    Fetcher
	countries *country.Lookup
	state     *state.State
	walker    *Walker
	global    *domain.Bundle
	window    *TimePeriod
	logger    *slog.Logger
}

// NewAggregator creates an aggregator with an empty global bundle. The
// reference-date window is seeded from the persisted bounds so a run that
// covers a narrower span never shrinks them.
func NewAggregator(client Fetcher, countries *country.Lookup, st *state.State, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	window := NewTimePeriod()
	if !st.StartDate.IsZero() {
		window.Start = st.StartDate
	}
	if !st.EndDate.IsZero() {
		window.End = st.EndDate
	}
	return &Aggregator{
		client:    client,
		countries: countries,
		state:     st,
		walker:    NewWalker(logger),
		global:    &domain.Bundle{},
		window:    window,
		logger:    logger,
	}
}

// Countries returns the sorted ISO3 codes of every country the feed has
// analyses for. ISO2 codes with no known ISO3 mapping are logged and
// skipped.
func (a *Aggregator) Countries(ctx context.Context) ([]string, error) {
	decoded, err := a.client.DownloadJSON(ctx, fmt.Sprintf("%s/analyses?type=A", a.client.BaseURL()))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, analysis := range asRecords(decoded) {
		iso2 := analysis.String("country")
		iso3 := a.countries.ISO3FromISO2(iso2)
		if iso3 == "" {
			a.logger.Error("could not find country ISO 3 code matching ISO 2 code",
				slog.String("iso2", iso2))
			continue
		}
		seen[iso3] = true
	}

	isos := make([]string, 0, len(seen))
	for iso3 := range seen {
		isos = append(isos, iso3)
	}
	sort.Strings(isos)
	return isos, nil
}

// ProcessCountry fetches one country's analyses and builds its row tables.
// Returns nil when the feed has no analyses for the country at all.
//
// The "latest" tables are built from the newest analysis that carries a
// current validity period, alongside that analysis's GeoJSON boundaries; the
// "all" tables span every analysis. Both are also folded into the global
// bundle. The country's watermark advances to the newest analysis date
// regardless of whether anything changed; Updated reports whether it moved
// past the previous cutoff.
func (a *Aggregator) ProcessCountry(ctx context.Context, countryISO3 string) (*domain.CountryOutput, error) {
	iso2 := a.countries.ISO2FromISO3(countryISO3)
	url := fmt.Sprintf("%s/population?country=%s", a.client.BaseURL(), iso2)
	decoded, err := a.client.DownloadJSON(ctx, url)
	if err != nil {
		return nil, err
	}
	analyses := asRecords(decoded)
	if len(analyses) == 0 {
		return nil, nil
	}

	analysisDate, err := ParseMonthYear(analyses[0].String("analysis_date"))
	if err != nil {
		return nil, err
	}
	updated := analysisDate.After(a.state.Cutoff(countryISO3))
	a.state.SetWatermark(countryISO3, analysisDate)

	period := NewTimePeriod()
	output := &domain.CountryOutput{CountryISO3: countryISO3, Updated: updated}

	var latest domain.Record
	for _, analysis := range analyses {
		if analysis.String("current_period_dates") != "" {
			latest = analysis
			break
		}
	}
	if latest != nil {
		latestDate, err := ParseMonthYear(latest.String("analysis_date"))
		if err != nil {
			return nil, err
		}
		geoURL := fmt.Sprintf("%s/areas/%s/P?country=%s&year=%d&type=A&format=geojson",
			a.client.BaseURL(), recordID(latest), iso2, latestDate.Year())
		path, err := a.client.DownloadFile(ctx, geoURL,
			fmt.Sprintf("ipc_%s.geojson", strings.ToLower(countryISO3)))
		if err != nil {
			return nil, err
		}
		output.GeoJSONPath = path

		if err := a.walker.Walk(latest, countryISO3, period, &output.Bundle.Latest); err != nil {
			return nil, err
		}
	}

	for _, analysis := range analyses {
		if err := a.walker.Walk(analysis, countryISO3, period, &output.Bundle.All); err != nil {
			return nil, err
		}
	}

	a.global.Latest.Extend(output.Bundle.Latest)
	a.global.All.Extend(output.Bundle.All)

	if start, end, ok := period.Bounds(); ok {
		output.Bundle.StartDate = start
		output.Bundle.EndDate = end
		a.widenGlobalWindow(period)
	}
	return output, nil
}

// GlobalBundle returns the accumulated cross-country tables with the widest
// reference-date window seen so far.
func (a *Aggregator) GlobalBundle() *domain.Bundle {
	if start, end, ok := a.window.Bounds(); ok {
		a.global.StartDate = start
		a.global.EndDate = end
	}
	return a.global
}

// widenGlobalWindow folds a country's window into the global one and mirrors
// the widened bounds into persisted state.
func (a *Aggregator) widenGlobalWindow(period *TimePeriod) {
	if period.Start.Before(a.window.Start) {
		a.window.Start = period.Start
		a.state.StartDate = period.Start
	}
	if period.End.After(a.window.End) {
		a.window.End = period.End
		a.state.EndDate = period.End
	}
}

// asRecords interprets a decoded JSON document as a list of records,
// tolerating empty and non-list payloads.
func asRecords(decoded any) []domain.Record {
	list, ok := decoded.([]any)
	if !ok {
		return nil
	}
	records := make([]domain.Record, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, domain.Record(rec))
		}
	}
	return records
}

// recordID renders a record's numeric or string id for URL interpolation.
func recordID(rec domain.Record) string {
	if id := rec.Number("id"); id != nil {
		return fmt.Sprintf("%.0f", *id)
	}
	return rec.String("id")
}
