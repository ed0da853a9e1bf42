// Package store provides SQLite-backed durable storage for compiled
// statements.
//
// The store is an append-only log. Every row records one statement handed
// to an executor together with its client context ID and fingerprint.
//
// # Ordering
//
//   - All ordering uses recorded_seq (logical clock), never timestamps
//   - All queries include ORDER BY recorded_seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Fingerprints are computed by ir.StatementFingerprint using canonical JSON
// and SHA-256 with domain separation.
package store
