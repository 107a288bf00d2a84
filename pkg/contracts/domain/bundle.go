package domain

import "time"

// RowSet holds the long and wide renderings of one table.
type RowSet struct {
	Long []*Row
	Wide []*Row
}

// Extend appends another set's rows.
func (s *RowSet) Extend(other RowSet) {
	s.Long = append(s.Long, other.Long...)
	s.Wide = append(s.Wide, other.Wide...)
}

// Tables holds the three granularities of one temporal scope.
type Tables struct {
	Country RowSet
	Group   RowSet
	Area    RowSet
}

// Extend appends another scope's tables.
func (t *Tables) Extend(other Tables) {
	t.Country.Extend(other.Country)
	t.Group.Extend(other.Group)
	t.Area.Extend(other.Area)
}

// Bundle is the full output of processing: the six row-set pairs in the two
// temporal scopes plus the running reference-date window spanning every
// validity period seen. One bundle is rebuilt per country, a second
// process-wide bundle accumulates across all countries and is handed to the
// global and harmonized exports once the per-country loop completes.
type Bundle struct {
	Latest    Tables
	All       Tables
	StartDate time.Time
	EndDate   time.Time
}

// CountryOutput is the per-country result of one aggregation pass. A nil
// CountryOutput means the country had no data at all; a non-nil one with
// Updated false means the feed had nothing newer than the stored watermark
// and no per-country artifacts should be emitted.
type CountryOutput struct {
	CountryISO3 string
	GeoJSONPath string
	Bundle      Bundle
	Updated     bool
}
