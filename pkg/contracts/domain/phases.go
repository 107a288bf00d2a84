package domain

// Projection identifies one of the three validity windows an analysis can
// carry. Order is fixed and significant for output column ordering.
type Projection struct {
	// Key is the feed's projection identifier ("current", ...).
	Key string
	// Suffix is appended to phase field names for this projection
	// ("", "_projected", "_second_projected").
	Suffix string
	// Name is the display name used in wide column headers.
	Name string
}

// Projections is the fixed projection order: current, first, second.
var Projections = []Projection{
	{Key: "current", Suffix: "", Name: "Current"},
	{Key: "projected", Suffix: "_projected", Name: "First projection"},
	{Key: "second_projected", Suffix: "_second_projected", Name: "Second projection"},
}

// Phase maps a feed field-name prefix to a phase label. The "estimated"
// prefix denotes the total analyzed population ("all"); "p3plus" the phase
// 3-and-above aggregate; "phaseN" the individual phases.
type Phase struct {
	Prefix string
	Label  string
}

// Phases is the fixed phase order: all, 3+, 1, 2, 3, 4, 5.
var Phases = []Phase{
	{Prefix: "estimated", Label: "all"},
	{Prefix: "p3plus", Label: "3+"},
	{Prefix: "phase1", Label: "1"},
	{Prefix: "phase2", Label: "2"},
	{Prefix: "phase3", Label: "3"},
	{Prefix: "phase4", Label: "4"},
	{Prefix: "phase5", Label: "5"},
}

// PopulationKey returns the feed field holding the phase's population for
// the given projection. Phase 3+ uses a bare "p3plus" field, the others a
// "{prefix}_population" field.
func (p Phase) PopulationKey(proj Projection) string {
	if p.Label == "3+" {
		return "p3plus" + proj.Suffix
	}
	return p.Prefix + "_population" + proj.Suffix
}

// PercentageKey returns the feed field holding the phase's percentage for
// the given projection.
func (p Phase) PercentageKey(proj Projection) string {
	return p.Prefix + "_percentage" + proj.Suffix
}
