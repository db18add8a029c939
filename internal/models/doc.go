// Package models defines the persistent entities for m3ugen's run history.
//
// The only database-backed entity is [Run]: one record per generation run,
// carrying the library config path, per-section counters, duration, and an
// optional serialized section report. Runs are observability data: the
// generator never reads them back; every run rewrites playlists from scratch.
//
// All persistent entities implement the [Model] interface providing ID
// generation, timestamps, validation, and soft delete support. The
// [Repository] interface defines standard CRUD operations for database access.
package models
