package domain

import "time"

// Dataset describes one emitted artifact set: the per-country or global
// collection of CSV/GeoJSON resources plus the catalog metadata the hosting
// platform would receive. Remote creation is out of scope; the metadata is
// written alongside the files.
type Dataset struct {
	Name            string     `json:"name"`
	Title           string     `json:"title"`
	Notes           string     `json:"notes,omitempty"`
	Maintainer      string     `json:"maintainer"`
	Organization    string     `json:"owner_org"`
	UpdateFrequency string     `json:"data_update_frequency"`
	Subnational     bool       `json:"subnational"`
	Locations       []string   `json:"groups"`
	Tags            []string   `json:"tags"`
	TimePeriodStart time.Time  `json:"dataset_start_date"`
	TimePeriodEnd   time.Time  `json:"dataset_end_date"`
	Resources       []Resource `json:"resources"`
}

// Resource is one file within a dataset.
type Resource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format"`
	Path        string `json:"path"`
}

// Showcase is the visual companion entry for a dataset.
type Showcase struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes"`
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
}
