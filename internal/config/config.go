package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Feed          FeedConfig          `yaml:"feed" envconfig:"FEED"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Export        ExportConfig        `yaml:"export" envconfig:"EXPORT"`
	AdminMatching AdminMatchingConfig `yaml:"adm_matching" envconfig:"ADM_MATCHING"`
}

// FeedConfig contains the IPC API client configuration
type FeedConfig struct {
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.ipcinfo.org" validate:"required,url"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s" validate:"gt=0"`
	RateLimit   float64       `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"2" validate:"gt=0"`
	Burst       int           `yaml:"burst" envconfig:"BURST" default:"1" validate:"gt=0"`
	SaveData    bool          `yaml:"save_data" envconfig:"SAVE_DATA"`
	UseSaved    bool          `yaml:"use_saved" envconfig:"USE_SAVED"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	SavedDataDir string `yaml:"saved_data_dir" envconfig:"SAVED_DATA_DIR" default:"data/saved" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
	StateFile    string `yaml:"state_file" envconfig:"STATE_FILE" default:"data/ipc_state.db" validate:"required"`
	AdminData    string `yaml:"admin_data" envconfig:"ADMIN_DATA" default:"config/admin_boundaries.csv"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ipc.log"`
}

// ExportConfig contains dataset metadata used by the artifact emitter
type ExportConfig struct {
	Maintainer       string `yaml:"maintainer" envconfig:"MAINTAINER" default:"196196be-6037-4488-8b71-d786adf4c081"`
	Organization     string `yaml:"organization" envconfig:"ORGANIZATION" default:"da501ffc-aadb-43f5-9d28-8fa572fd9ce0"`
	GlobalDatasetURL string `yaml:"global_dataset_url" envconfig:"GLOBAL_DATASET_URL" default:"https://data.humdata.org/dataset/global-acute-food-insecurity-country-data"`
	OrganizationURL  string `yaml:"organization_url" envconfig:"ORGANIZATION_URL" default:"https://data.humdata.org/organization/da501ffc-aadb-43f5-9d28-8fa572fd9ce0"`
	ShowcaseURL      string `yaml:"showcase_url" envconfig:"SHOWCASE_URL" default:"https://www.ipcinfo.org/ipc-country-analysis/en/?country="`
	CHShowcaseURL    string `yaml:"ch_showcase_url" envconfig:"CH_SHOWCASE_URL" default:"https://www.ipcinfo.org/ch"`
	DashboardURL     string `yaml:"dashboard_url" envconfig:"DASHBOARD_URL" default:"https://www.ipcinfo.org/ipcinfo-website/ipc-dashboard/en/"`
	ThumbnailURL     string `yaml:"thumbnail_url" envconfig:"THUMBNAIL_URL" default:"https://www.ipcinfo.org/fileadmin/user_upload/ipcinfo/img/dashboard_thumbnail.jpg"`
	GlobalWorkbook   bool   `yaml:"global_workbook" envconfig:"GLOBAL_WORKBOOK" default:"true"`
	CHCountries      []string `yaml:"ch_countries" envconfig:"CH_COUNTRIES"`
}

// AdminMatchingConfig holds the per-country exception tables for the
// harmonized export's admin classification. These are configuration data,
// not code: each list names countries (ISO3) whose feed reports admin names
// at unusual levels or in the wrong fields.
type AdminMatchingConfig struct {
	// Adm1Only lists countries whose feed only carries usable admin 1
	// names; Area values are ignored.
	Adm1Only []string `yaml:"adm1_only"`
	// Adm2Only lists countries where Level 1 is never populated and Area
	// holds admin 2 names.
	Adm2Only []string `yaml:"adm2_only"`
	// Adm2OnlyIncludeAdm1 lists countries where both names are used at
	// their literal levels even though Level 1 is sparse.
	Adm2OnlyIncludeAdm1 []string `yaml:"adm2_only_include_adm1"`
	// Adm2InLevel1 lists countries whose Level 1 field actually holds
	// admin 2 names.
	Adm2InLevel1 []string `yaml:"adm2_in_level1"`
	// Adm1InArea lists countries whose Area field actually holds admin 1
	// names.
	Adm1InArea []string `yaml:"adm1_in_area"`
	// IgnorePatterns are case-insensitive substrings marking names that
	// cannot be matched to a boundary (e.g. displaced-population rows).
	IgnorePatterns []string `yaml:"adm_ignore_patterns"`
	// CountryIgnorePatterns adds per-country ignore patterns on top of the
	// global list.
	CountryIgnorePatterns map[string][]string `yaml:"country_ignore_patterns"`
	// Adm1Errors and Adm2Errors list provider names whose inexact matches
	// are known to be wrong and must be discarded instead of reported.
	Adm1Errors []string `yaml:"adm1_errors"`
	Adm2Errors []string `yaml:"adm2_errors"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("IPC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg.merge(fileConfig)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// merge fills fields the environment left empty from the file config
// (environment takes precedence).
func (c *Config) merge(file *Config) {
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = file.Feed.BaseURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = file.Feed.Timeout
	}
	if c.Feed.RateLimit == 0 {
		c.Feed.RateLimit = file.Feed.RateLimit
	}
	if c.Feed.Burst == 0 {
		c.Feed.Burst = file.Feed.Burst
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = file.Paths.DataDir
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = file.Paths.ReportsDir
	}
	if c.Paths.SavedDataDir == "" {
		c.Paths.SavedDataDir = file.Paths.SavedDataDir
	}
	if c.Paths.StateFile == "" {
		c.Paths.StateFile = file.Paths.StateFile
	}
	if c.Paths.AdminData == "" {
		c.Paths.AdminData = file.Paths.AdminData
	}
	if c.Logging.Level == "" {
		c.Logging.Level = file.Logging.Level
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = file.Logging.FilePath
	}
	if len(c.Export.CHCountries) == 0 {
		c.Export.CHCountries = file.Export.CHCountries
	}
	// The exception tables only come from the file; the environment cannot
	// express them.
	if len(file.AdminMatching.Adm1Only) > 0 ||
		len(file.AdminMatching.Adm2Only) > 0 ||
		len(file.AdminMatching.Adm2OnlyIncludeAdm1) > 0 ||
		len(file.AdminMatching.Adm2InLevel1) > 0 ||
		len(file.AdminMatching.Adm1InArea) > 0 ||
		len(file.AdminMatching.IgnorePatterns) > 0 {
		c.AdminMatching = file.AdminMatching
	}
}

// applyDefaults fills any remaining zero values
func (c *Config) applyDefaults() {
	def := Default()
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = def.Feed.BaseURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = def.Feed.Timeout
	}
	if c.Feed.RateLimit == 0 {
		c.Feed.RateLimit = def.Feed.RateLimit
	}
	if c.Feed.Burst == 0 {
		c.Feed.Burst = def.Feed.Burst
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = def.Paths.DataDir
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = def.Paths.ReportsDir
	}
	if c.Paths.SavedDataDir == "" {
		c.Paths.SavedDataDir = def.Paths.SavedDataDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = def.Paths.LogsDir
	}
	if c.Paths.StateFile == "" {
		c.Paths.StateFile = def.Paths.StateFile
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = def.Logging.Output
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = def.Logging.FilePath
	}
	if c.Export.Maintainer == "" {
		c.Export = def.Export
	}
	if len(c.AdminMatching.IgnorePatterns) == 0 && len(c.AdminMatching.Adm1Only) == 0 {
		c.AdminMatching = def.AdminMatching
	}
}

// EnsureDirectories creates the configured directories if missing
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.SavedDataDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"config/config.yaml",
		"../config/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			BaseURL:   "https://api.ipcinfo.org",
			Timeout:   60 * time.Second,
			RateLimit: 2,
			Burst:     1,
		},
		Paths: PathsConfig{
			DataDir:      "data",
			ReportsDir:   "data/reports",
			SavedDataDir: "data/saved",
			LogsDir:      "logs",
			StateFile:    "data/ipc_state.db",
			AdminData:    "config/admin_boundaries.csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/ipc.log",
		},
		Export: ExportConfig{
			Maintainer:       "196196be-6037-4488-8b71-d786adf4c081",
			Organization:     "da501ffc-aadb-43f5-9d28-8fa572fd9ce0",
			GlobalDatasetURL: "https://data.humdata.org/dataset/global-acute-food-insecurity-country-data",
			OrganizationURL:  "https://data.humdata.org/organization/da501ffc-aadb-43f5-9d28-8fa572fd9ce0",
			ShowcaseURL:      "https://www.ipcinfo.org/ipc-country-analysis/en/?country=",
			CHShowcaseURL:    "https://www.ipcinfo.org/ch",
			DashboardURL:     "https://www.ipcinfo.org/ipcinfo-website/ipc-dashboard/en/",
			ThumbnailURL:     "https://www.ipcinfo.org/fileadmin/user_upload/ipcinfo/img/dashboard_thumbnail.jpg",
			GlobalWorkbook:   true,
			CHCountries: []string{
				"BFA", "CIV", "CMR", "CPV", "GHA", "GIN", "GMB", "GNB",
				"LBR", "MLI", "MRT", "NER", "NGA", "SEN", "SLE", "TCD", "TGO",
			},
		},
		AdminMatching: AdminMatchingConfig{
			Adm1Only: []string{"AFG", "DJI", "HTI", "LSO", "SLV", "SOM", "SSD", "SWZ"},
			Adm2Only: []string{"GTM", "HND", "KEN"},
			Adm2OnlyIncludeAdm1: []string{"COD"},
			Adm2InLevel1:        []string{"BDI", "CAF"},
			Adm1InArea:          []string{"MOZ"},
			IgnorePatterns: []string{
				"cluster", "displaced", "idp", "migrant", "refugee",
				"resident", "urban", "rural", "settlement",
			},
			CountryIgnorePatterns: map[string][]string{
				"KEN": {"formal", "informal"},
				"SOM": {"pastoral", "agropastoral", "riverine"},
			},
		},
	}
}
