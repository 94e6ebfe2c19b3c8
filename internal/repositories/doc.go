// Package repositories implements SQLite persistence for conversion history.
//
// Key Implementations:
//   - [ConversionRepository] : conversion runs and the tracks each run could not place
//   - [RunRecorder] : adapter the conversion engine uses to store finished runs
//
// Conversions are soft deleted via deleted_at timestamps and excluded from queries by default.
// Sequence numbers provide stable, human-readable ordering (e.g., conversion #15) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
