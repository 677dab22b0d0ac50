// Package store persists transcription task records in SQLite.
//
// The Store manages database connections, schema initialization, and the
// durable task table the lifecycle manager writes through. Records are
// keyed by task id with full-record upsert semantics: a single statement
// writes status, transcript, and timings together, so a reader never
// observes a completed record without its transcript.
//
// Treat this package as the single source of truth for task persistence;
// when you add fields, update schema.sql and bump schemaVersion.
package store
