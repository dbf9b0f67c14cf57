// Package store provides SQLite-backed storage for saved documents and the
// intent journal.
//
// Documents are content addressed: saving the same document under the same
// name twice keeps one row and only bumps its seq, so the latest save of a
// name is always the row with the highest seq.
//
// The journal is append-only. Each session's intents are numbered from 1
// with no gaps, and reads are always ORDER BY seq ASC so a replay applies
// them in exactly the order they were recorded.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
