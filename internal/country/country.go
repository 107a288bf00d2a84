// Package country provides ISO code and humanitarian-status lookups backed
// by an embedded reference table.
package country

import (
	"bytes"
	"encoding/csv"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"ipccli/internal/errors"
)

//go:embed countries.csv
var embeddedTable []byte

// Info holds one country's reference entry.
type Info struct {
	ISO2 string
	ISO3 string
	Name string
	// HRP reports whether the country has a Humanitarian Response Plan.
	HRP bool
	// GHO reports whether the country is in the Global Humanitarian
	// Overview.
	GHO bool
}

// Lookup resolves ISO2/ISO3 codes, display names and humanitarian-status
// flags.
type Lookup struct {
	byISO2 map[string]*Info
	byISO3 map[string]*Info
}

// NewLookup builds a Lookup from the embedded reference table.
func NewLookup() (*Lookup, error) {
	return NewLookupFromReader(bytes.NewReader(embeddedTable))
}

// NewLookupFromReader builds a Lookup from CSV data with columns
// iso2,iso3,name,hrp,gho.
func NewLookupFromReader(r io.Reader) (*Lookup, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read country table", err)
	}
	if len(records) < 2 {
		return nil, errors.NewValidationError("country table has no data rows")
	}

	lookup := &Lookup{
		byISO2: make(map[string]*Info, len(records)-1),
		byISO3: make(map[string]*Info, len(records)-1),
	}
	for i, record := range records[1:] {
		if len(record) != 5 {
			return nil, errors.NewParsingError(
				fmt.Sprintf("country table row %d has %d columns, want 5", i+2, len(record)), nil)
		}
		info := &Info{
			ISO2: strings.ToUpper(strings.TrimSpace(record[0])),
			ISO3: strings.ToUpper(strings.TrimSpace(record[1])),
			Name: strings.TrimSpace(record[2]),
			HRP:  record[3] == "Y",
			GHO:  record[4] == "Y",
		}
		lookup.byISO2[info.ISO2] = info
		lookup.byISO3[info.ISO3] = info
	}
	return lookup, nil
}

// ISO3FromISO2 returns the ISO3 code for an ISO2 code, "" when unknown.
func (l *Lookup) ISO3FromISO2(iso2 string) string {
	if info, ok := l.byISO2[strings.ToUpper(iso2)]; ok {
		return info.ISO3
	}
	return ""
}

// ISO2FromISO3 returns the ISO2 code for an ISO3 code, "" when unknown.
func (l *Lookup) ISO2FromISO3(iso3 string) string {
	if info, ok := l.byISO3[strings.ToUpper(iso3)]; ok {
		return info.ISO2
	}
	return ""
}

// Name returns the display name for an ISO3 code, the code itself when
// unknown.
func (l *Lookup) Name(iso3 string) string {
	if info, ok := l.byISO3[strings.ToUpper(iso3)]; ok {
		return info.Name
	}
	return iso3
}

// HasHRP reports whether the country has a Humanitarian Response Plan.
func (l *Lookup) HasHRP(iso3 string) bool {
	if info, ok := l.byISO3[strings.ToUpper(iso3)]; ok {
		return info.HRP
	}
	return false
}

// InGHO reports whether the country is in the Global Humanitarian Overview.
func (l *Lookup) InGHO(iso3 string) bool {
	if info, ok := l.byISO3[strings.ToUpper(iso3)]; ok {
		return info.GHO
	}
	return false
}
