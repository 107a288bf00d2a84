package domain

import "encoding/json"

// Record is one JSON-decoded node of the IPC feed: an analysis, a group
// (admin 1) or an area (admin 2). The feed's field set genuinely varies per
// record and per projection, so Record stays a generic mapping with accessors
// that preserve the distinction between an absent field and a present-but-null
// one.
type Record map[string]any

// Get returns the raw value for key and whether the key is present at all.
// A present key may still hold a nil value.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// Has reports whether the key exists in the record, null or not.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the string value for key, or "" when the field is absent,
// null or not a string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the numeric value for key, or nil when the field is absent,
// null or not numeric. JSON decoding yields float64; json.Number and int are
// handled for records built in tests.
func (r Record) Number(key string) *float64 {
	switch v := r[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

// Records returns the list value for key as a slice of Records. The second
// return reports key presence: an explicitly null list yields (nil, true),
// a missing key (nil, false). Non-record list elements are skipped.
func (r Record) Records(key string) ([]Record, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, ok
	}
	list, ok := v.([]any)
	if !ok {
		if recs, ok := v.([]Record); ok {
			return recs, true
		}
		return nil, true
	}
	records := make([]Record, 0, len(list))
	for _, item := range list {
		switch rec := item.(type) {
		case map[string]any:
			records = append(records, Record(rec))
		case Record:
			records = append(records, rec)
		}
	}
	return records, true
}
