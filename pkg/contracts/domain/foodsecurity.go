package domain

import "strings"

// FoodSecurityRecord is one row of the harmonized cross-country export:
// a (location, admin unit, projection, phase) observation with resolved
// administrative codes. Warnings and errors are carried as data so that
// downstream consumers can filter annotated rows instead of losing them.
type FoodSecurityRecord struct {
	LocationCode              string   `json:"location_code"`
	HasHRP                    string   `json:"has_hrp"`
	InGHO                     string   `json:"in_gho"`
	ProviderAdmin1Name        string   `json:"provider_admin1_name"`
	ProviderAdmin2Name        string   `json:"provider_admin2_name"`
	Admin1Code                string   `json:"admin1_code"`
	Admin1Name                string   `json:"admin1_name"`
	Admin2Code                string   `json:"admin2_code"`
	Admin2Name                string   `json:"admin2_name"`
	AdminLevel                int      `json:"admin_level"`
	IPCPhase                  string   `json:"ipc_phase"`
	IPCType                   string   `json:"ipc_type"`
	PopulationInPhase         *float64 `json:"population_in_phase"`
	PopulationFractionInPhase *float64 `json:"population_fraction_in_phase"`
	ReferencePeriodStart      string   `json:"reference_period_start"`
	ReferencePeriodEnd        string   `json:"reference_period_end"`
	DatasetID                 string   `json:"dataset_hdx_id"`
	ResourceID                string   `json:"resource_hdx_id"`
	Warnings                  []string `json:"warnings,omitempty"`
	Errors                    []string `json:"errors,omitempty"`
}

// FoodSecurityColumns is the harmonized export's column order.
var FoodSecurityColumns = []string{
	"location_code",
	"has_hrp",
	"in_gho",
	"provider_admin1_name",
	"provider_admin2_name",
	"admin1_code",
	"admin1_name",
	"admin2_code",
	"admin2_name",
	"admin_level",
	"ipc_phase",
	"ipc_type",
	"population_in_phase",
	"population_fraction_in_phase",
	"reference_period_start",
	"reference_period_end",
	"dataset_hdx_id",
	"resource_hdx_id",
	"warning",
	"error",
}

// ToRow flattens the record into an ordered Row matching
// FoodSecurityColumns. Warning and error lists are pipe-joined.
func (f *FoodSecurityRecord) ToRow() *Row {
	row := NewRow()
	row.Set("location_code", f.LocationCode)
	row.Set("has_hrp", f.HasHRP)
	row.Set("in_gho", f.InGHO)
	row.Set("provider_admin1_name", f.ProviderAdmin1Name)
	row.Set("provider_admin2_name", f.ProviderAdmin2Name)
	row.Set("admin1_code", f.Admin1Code)
	row.Set("admin1_name", f.Admin1Name)
	row.Set("admin2_code", f.Admin2Code)
	row.Set("admin2_name", f.Admin2Name)
	row.Set("admin_level", f.AdminLevel)
	row.Set("ipc_phase", f.IPCPhase)
	row.Set("ipc_type", f.IPCType)
	if f.PopulationInPhase != nil {
		row.Set("population_in_phase", *f.PopulationInPhase)
	} else {
		row.Set("population_in_phase", nil)
	}
	if f.PopulationFractionInPhase != nil {
		row.Set("population_fraction_in_phase", *f.PopulationFractionInPhase)
	} else {
		row.Set("population_fraction_in_phase", nil)
	}
	row.Set("reference_period_start", f.ReferencePeriodStart)
	row.Set("reference_period_end", f.ReferencePeriodEnd)
	row.Set("dataset_hdx_id", f.DatasetID)
	row.Set("resource_hdx_id", f.ResourceID)
	row.Set("warning", strings.Join(f.Warnings, "|"))
	row.Set("error", strings.Join(f.Errors, "|"))
	return row
}
