// Package store provides SQLite-backed durable storage for the license
// catalogue.
//
// The store holds two tables:
//   - licenses: one row per catalogued license
//   - attachments: files attached to a license (content stored inline as BLOB)
//
// Deleting a license cascades to its attachments (foreign_keys=ON).
//
// # Ordering
//
// List queries are ordered by software_name COLLATE NOCASE, then id, so
// results are stable across runs. The Catalog re-sorts with locale-aware
// collation for display.
//
// # Timestamps
//
// created_at and updated_at are stored as RFC 3339 text in UTC and come
// from the store's Clock, which tests replace with a fixed clock.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Catalog wraps a Store with the in-memory license collection the UI
// reads from, and implements editor.Gateway.
package store
