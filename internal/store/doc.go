// Package store provides SQLite-backed history of scenario runs.
//
// Each finished run is one row in runs, keyed by its run ID, with its
// recorded steps in steps. Writes are idempotent: recording the same run ID
// twice keeps the first row.
//
// # Ordering
//
//   - Runs are listed newest first: ORDER BY started_at DESC, id DESC
//   - Steps are read in recording order: ORDER BY seq ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
