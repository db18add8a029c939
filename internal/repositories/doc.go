// Package repositories implements SQLite persistence for the run history.
//
// [RunRepository] implements [models.Repository] for [models.Run], handling
// CRUD operations with atomic sequence generation and soft deletes via
// deleted_at timestamps. Deleted records are excluded from queries by default.
//
// Sequence numbers provide stable, human-readable ordering (run #42)
// independent of UUIDs and creation timestamps. The [NextSequence] function
// atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
