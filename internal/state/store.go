// Package state persists per-country analysis-date watermarks and the
// running global reference-date window across pipeline runs.
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ipccli/internal/errors"
)

// dateLayout is the stored precision: dates round-trip to the day.
const dateLayout = "2006-01-02"

// Reserved keys sharing the watermark table with country codes.
const (
	keyDefault   = "DEFAULT"
	keyStartDate = "START_DATE"
	keyEndDate   = "END_DATE"
)

// State is the in-memory copy of the persisted run state. Countries maps
// ISO3 to the last seen analysis date; Default is the global cutoff used for
// countries with no stored watermark.
type State struct {
	Countries map[string]time.Time
	Default   time.Time
	StartDate time.Time
	EndDate   time.Time
}

// Cutoff returns the date an analysis must exceed for the country to count
// as updated: the later of the stored watermark and the global default
// cutoff, so a stale watermark never lets analyses older than the default
// count as updates.
func (s *State) Cutoff(countryISO3 string) time.Time {
	cutoff := s.Default
	if date, ok := s.Countries[countryISO3]; ok && date.After(cutoff) {
		cutoff = date
	}
	return cutoff
}

// SetWatermark advances the country's stored watermark. It is called
// unconditionally, whether or not the analysis qualified as an update.
func (s *State) SetWatermark(countryISO3 string, date time.Time) {
	if s.Countries == nil {
		s.Countries = make(map[string]time.Time)
	}
	s.Countries[countryISO3] = date
}

// Store is a sqlite-backed state container.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the state database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError(
			fmt.Sprintf("failed to open state database %s", path), err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS watermarks (
			key  TEXT PRIMARY KEY,
			date TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to create watermarks table", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full persisted state.
func (s *Store) Load() (*State, error) {
	rows, err := s.db.Query(`SELECT key, date FROM watermarks`)
	if err != nil {
		return nil, errors.NewStorageError("failed to read watermarks", err)
	}
	defer rows.Close()

	state := &State{Countries: make(map[string]time.Time)}
	for rows.Next() {
		var key, dateStr string
		if err := rows.Scan(&key, &dateStr); err != nil {
			return nil, errors.NewStorageError("failed to scan watermark row", err)
		}
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("bad stored date %q for %s", dateStr, key), err)
		}
		switch key {
		case keyDefault:
			state.Default = date
		case keyStartDate:
			state.StartDate = date
		case keyEndDate:
			state.EndDate = date
		default:
			state.Countries[key] = date
		}
	}
	return state, rows.Err()
}

// Save writes the full state back, replacing existing entries.
func (s *Store) Save(state *State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewStorageError("failed to begin state transaction", err)
	}
	defer tx.Rollback()

	upsert, err := tx.Prepare(`
		INSERT INTO watermarks (key, date) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET date = excluded.date`)
	if err != nil {
		return errors.NewStorageError("failed to prepare watermark upsert", err)
	}
	defer upsert.Close()

	write := func(key string, date time.Time) error {
		if date.IsZero() {
			return nil
		}
		_, err := upsert.Exec(key, date.UTC().Format(dateLayout))
		return err
	}

	if err := write(keyDefault, state.Default); err != nil {
		return errors.NewStorageError("failed to write default cutoff", err)
	}
	if err := write(keyStartDate, state.StartDate); err != nil {
		return errors.NewStorageError("failed to write start date", err)
	}
	if err := write(keyEndDate, state.EndDate); err != nil {
		return errors.NewStorageError("failed to write end date", err)
	}
	for iso3, date := range state.Countries {
		if err := write(iso3, date); err != nil {
			return errors.NewStorageError(
				fmt.Sprintf("failed to write watermark for %s", iso3), err)
		}
	}

	return tx.Commit()
}
