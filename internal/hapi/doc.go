// Package hapi builds the harmonized cross-country food security table from
// the accumulated all-history wide tables: provider admin names are
// classified per country, resolved to official pcodes, duplicate observations
// reconciled, and the result flattened to one row per phase.
//
// Anomalies are data here, not errors: unmatched or ambiguous names annotate
// the row's warning column, duplicate losers the error column. Every source
// row appears in the output.
package hapi
