// Package admins resolves free-text administrative unit names to official
// pcodes. Reference boundaries are loaded per country and level from a CSV
// table; matching is exact on folded names with a best-effort fuzzy fallback
// flagged as inexact.
package admins

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ipccli/internal/errors"
)

// Unit is one reference administrative boundary.
type Unit struct {
	CountryISO3 string
	Level       int
	PCode       string
	Name        string
	// ParentPCode is the admin 1 pcode for admin 2 units, "" at level 1.
	ParentPCode string
}

// Match is the result of resolving a provider name.
type Match struct {
	PCode string
	// Name is the official boundary name, which may differ from the
	// provider's spelling.
	Name string
	// Exact is false when the match came from the fuzzy fallback.
	Exact bool
}

// Matcher resolves names against the loaded reference boundaries.
type Matcher struct {
	// byName maps level -> country -> folded name -> unit.
	byName map[int]map[string]map[string]*Unit
	// units maps level -> country -> all units, for the fuzzy pass.
	units map[int]map[string][]*Unit
	// byPCode maps pcode -> unit.
	byPCode map[string]*Unit
}

// NewMatcher builds a matcher over the given reference units.
func NewMatcher(units []Unit) *Matcher {
	m := &Matcher{
		byName:  make(map[int]map[string]map[string]*Unit),
		units:   make(map[int]map[string][]*Unit),
		byPCode: make(map[string]*Unit),
	}
	for i := range units {
		unit := &units[i]
		iso3 := strings.ToUpper(unit.CountryISO3)
		if m.byName[unit.Level] == nil {
			m.byName[unit.Level] = make(map[string]map[string]*Unit)
			m.units[unit.Level] = make(map[string][]*Unit)
		}
		if m.byName[unit.Level][iso3] == nil {
			m.byName[unit.Level][iso3] = make(map[string]*Unit)
		}
		m.byName[unit.Level][iso3][foldName(unit.Name)] = unit
		m.units[unit.Level][iso3] = append(m.units[unit.Level][iso3], unit)
		m.byPCode[unit.PCode] = unit
	}
	return m
}

// LoadMatcher reads reference boundaries from a CSV file with columns
// iso3,level,pcode,name,parent_pcode and builds a matcher.
func LoadMatcher(path string) (*Matcher, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(
			fmt.Sprintf("failed to open admin boundaries file %s", path), err)
	}
	defer file.Close()

	units, err := readUnits(file)
	if err != nil {
		return nil, err
	}
	return NewMatcher(units), nil
}

func readUnits(r io.Reader) ([]Unit, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read admin boundaries table", err)
	}
	if len(records) < 1 {
		return nil, errors.NewValidationError("admin boundaries table is empty")
	}

	units := make([]Unit, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 5 {
			return nil, errors.NewParsingError(
				fmt.Sprintf("admin boundaries row %d has %d columns, want 5", i+2, len(record)), nil)
		}
		level, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("admin boundaries row %d has bad level %q", i+2, record[1]), err)
		}
		units = append(units, Unit{
			CountryISO3: strings.ToUpper(strings.TrimSpace(record[0])),
			Level:       level,
			PCode:       strings.TrimSpace(record[2]),
			Name:        strings.TrimSpace(record[3]),
			ParentPCode: strings.TrimSpace(record[4]),
		})
	}
	return units, nil
}

// GetPCode resolves name within countryISO3 at the given admin level.
// parentPCode, when non-empty, restricts fuzzy admin 2 candidates to
// children of that admin 1 unit. A nil Match means no candidate at all.
func (m *Matcher) GetPCode(countryISO3 string, name string, level int, parentPCode string) *Match {
	iso3 := strings.ToUpper(countryISO3)
	folded := foldName(name)
	if folded == "" {
		return nil
	}

	if unit, ok := m.byName[level][iso3][folded]; ok {
		return &Match{PCode: unit.PCode, Name: unit.Name, Exact: true}
	}

	// Fuzzy pass: substring containment on folded names, preferring units
	// under the given parent.
	var best *Unit
	for _, unit := range m.units[level][iso3] {
		if parentPCode != "" && unit.ParentPCode != "" && unit.ParentPCode != parentPCode {
			continue
		}
		candidate := foldName(unit.Name)
		if strings.Contains(candidate, folded) || strings.Contains(folded, candidate) {
			if best == nil || len(candidate) < len(foldName(best.Name)) {
				best = unit
			}
		}
	}
	if best == nil {
		return nil
	}
	return &Match{PCode: best.PCode, Name: best.Name, Exact: false}
}

// NameForPCode returns the official name for a pcode, "" when unknown.
func (m *Matcher) NameForPCode(pcode string) string {
	if unit, ok := m.byPCode[pcode]; ok {
		return unit.Name
	}
	return ""
}
