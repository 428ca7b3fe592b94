// Package store provides SQLite-backed durable storage for run records.
//
// The store is an append-only archive of completed (or failed) program
// executions: one row per run, keyed by the run token the engine stamped
// on it. Tape contents are never persisted - only execution metadata
// (steps, per-opcode counts, output size, final capacity, duration).
//
// Ordering: run tokens are UUIDv7, so ORDER BY token is chronological and
// deterministic at the same time. No query orders by wall-clock columns.
//
// Op counts are serialized as canonical JSON so identical runs produce
// byte-identical rows.
package store
