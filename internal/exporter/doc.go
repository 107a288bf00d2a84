// Package exporter writes the pipeline's artifacts: HXL-tagged CSV tables,
// the per-dataset metadata sidecars, and the optional global Excel workbook.
//
// Every CSV carries a header row followed by an HXL tag row. Wide tables take
// their header from the union of all rows' columns in first-appearance order,
// since individual rows only carry columns for the projections they have.
// An empty table is a soft failure: the artifact is skipped with a warning
// and the rest of the set still emits.
package exporter
