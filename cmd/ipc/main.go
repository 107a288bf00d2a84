// Command ipc runs the IPC food insecurity pipeline: it discovers countries
// with acute food insecurity analyses, reshapes each country's feed into
// HXL-tagged CSV artifacts, and finishes with the global set and the
// harmonized cross-country export.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ipccli/internal/admins"
	"ipccli/internal/config"
	"ipccli/internal/country"
	"ipccli/internal/dataprocessing"
	"ipccli/internal/exporter"
	"ipccli/internal/feed"
	"ipccli/internal/hapi"
	"ipccli/internal/infrastructure"
	"ipccli/internal/state"
	"ipccli/pkg/contracts/domain"
)

func main() {
	countriesFlag := flag.String("countries", "", "comma-separated ISO3 codes to process (default: all discovered)")
	save := flag.Bool("save", false, "save API responses for offline reruns")
	useSaved := flag.Bool("use-saved", false, "replay saved API responses instead of fetching")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *save {
		cfg.Feed.SaveData = true
	}
	if *useSaved {
		cfg.Feed.UseSaved = true
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.NewString())
	logger.InfoContext(ctx, "starting IPC pipeline",
		slog.String("base_url", cfg.Feed.BaseURL),
		slog.Bool("use_saved", cfg.Feed.UseSaved))

	if err := run(ctx, cfg, logger, *countriesFlag); err != nil {
		logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, countriesFlag string) error {
	lookup, err := country.NewLookup()
	if err != nil {
		return err
	}

	store, err := state.Open(cfg.Paths.StateFile)
	if err != nil {
		return err
	}
	defer store.Close()
	st, err := store.Load()
	if err != nil {
		return err
	}

	client := feed.NewClient(cfg.Feed, cfg.Paths.SavedDataDir, cfg.Paths.ReportsDir, logger)
	aggregator := dataprocessing.NewAggregator(client, lookup, st, logger)

	isos, err := aggregator.Countries(ctx)
	if err != nil {
		return err
	}
	if countriesFlag != "" {
		isos = filterCountries(isos, countriesFlag)
	}
	logger.InfoContext(ctx, "countries discovered", slog.Int("count", len(isos)))

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir, logger)
	emitter := exporter.NewEmitter(writer, cfg.Export, lookup, logger)

	updated, err := processCountries(ctx, aggregator, emitter, cfg.Paths.ReportsDir, logger, isos)
	if err != nil {
		return err
	}

	if !updated {
		logger.InfoContext(ctx, "Nothing to update!")
		return store.Save(st)
	}

	global := aggregator.GlobalBundle()
	dataset, showcase, err := emitter.EmitGlobal(global)
	if err != nil {
		return err
	}
	if dataset != nil {
		if _, err := exporter.WriteMetadata(cfg.Paths.ReportsDir, dataset, showcase); err != nil {
			return err
		}
	}
	if cfg.Export.GlobalWorkbook {
		path := filepath.Join(cfg.Paths.ReportsDir, "ipc_global.xlsx")
		if err := exporter.WriteWorkbook(path, global, logger); err != nil {
			return err
		}
	}

	// The harmonized export runs strictly after every country has been
	// folded into the global bundle.
	matcher, err := admins.LoadMatcher(cfg.Paths.AdminData)
	if err != nil {
		return err
	}
	hapiOutput := hapi.NewOutput(hapi.NewResolver(cfg.AdminMatching, matcher), lookup, logger)
	hapiDataset, err := hapiOutput.Emit(writer, cfg.Export, global)
	if err != nil {
		return err
	}
	if hapiDataset != nil {
		if _, err := exporter.WriteMetadata(cfg.Paths.ReportsDir, hapiDataset, nil); err != nil {
			return err
		}
	}

	return store.Save(st)
}

type countryProcessor interface {
	ProcessCountry(ctx context.Context, countryISO3 string) (*domain.CountryOutput, error)
}

type countryEmitter interface {
	EmitCountry(output *domain.CountryOutput) (*domain.Dataset, *domain.Showcase, error)
}

// processCountries runs the sequential per-country loop and reports whether
// any country produced new artifacts. A country whose feed cannot be
// processed (malformed dates, bad payloads) is logged and skipped so the
// remaining countries still run; only artifact-writing failures abort.
func processCountries(
	ctx context.Context,
	processor countryProcessor,
	emitter countryEmitter,
	reportsDir string,
	logger *slog.Logger,
	isos []string,
) (bool, error) {
	updated := false
	for _, iso3 := range isos {
		output, err := processor.ProcessCountry(ctx, iso3)
		if err != nil {
			logger.ErrorContext(ctx, "country processing failed",
				slog.String("country", iso3),
				slog.String("error", err.Error()))
			continue
		}
		if output == nil {
			logger.WarnContext(ctx, "country has no analyses", slog.String("country", iso3))
			continue
		}
		if !output.Updated {
			logger.InfoContext(ctx, "country has no new analysis", slog.String("country", iso3))
			continue
		}
		updated = true

		dataset, showcase, err := emitter.EmitCountry(output)
		if err != nil {
			return false, err
		}
		if dataset != nil {
			if _, err := exporter.WriteMetadata(reportsDir, dataset, showcase); err != nil {
				return false, err
			}
		}
	}
	return updated, nil
}

// filterCountries keeps the discovered codes named in the comma-separated
// flag value, preserving discovery order.
func filterCountries(isos []string, value string) []string {
	wanted := make(map[string]bool)
	for _, iso3 := range strings.Split(value, ",") {
		wanted[strings.ToUpper(strings.TrimSpace(iso3))] = true
	}
	filtered := make([]string, 0, len(isos))
	for _, iso3 := range isos {
		if wanted[iso3] {
			filtered = append(filtered, iso3)
		}
	}
	return filtered
}
