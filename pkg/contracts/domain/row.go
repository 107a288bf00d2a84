package domain

// Row is one flat output row with insertion-ordered columns. Long-form rows
// have a fixed column set; wide-form rows grow data-dependent columns per
// populated projection, so column order must be tracked explicitly rather
// than derived from a struct. A column may hold nil (emitted as an empty
// cell), which is distinct from the column being absent.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set stores value under key, appending the column on first use and
// overwriting in place afterwards.
func (r *Row) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the column exists.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, nil when the column is absent.
func (r *Row) Value(key string) any {
	return r.values[key]
}

// String returns the column as a string, "" when absent, null or non-string.
func (r *Row) String(key string) string {
	if s, ok := r.values[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the column as a *float64, nil when absent, null or
// non-numeric.
func (r *Row) Number(key string) *float64 {
	switch v := r.values[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// Has reports whether the column exists.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the columns in insertion order.
func (r *Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy preserving column order.
func (r *Row) Clone() *Row {
	clone := &Row{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(clone.keys, r.keys)
	for k, v := range r.values {
		clone.values[k] = v
	}
	return clone
}

// UnionKeys returns the union of all rows' columns, ordered by first
// appearance across the slice. Wide rows only carry columns for populated
// projections, so a header taken from any single row could miss columns
// present in later rows.
func UnionKeys(rows []*Row) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, key := range row.keys {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}
