// Package cache provides an SQLite-backed TTL cache for GitHub
// check-run API responses.
//
// Entries are keyed by a SHA-256 hash of the repository and commit SHA
// and store the serialized check-run set with a creation timestamp.
// Expired entries are skipped on read and deleted lazily. Check runs
// for a given commit can change (re-runs, late-reporting checks), so
// the TTL is deliberately short rather than treating results as
// immutable.
//
// The default cache directory is $XDG_CACHE_HOME/bigpicture (or the
// OS-appropriate equivalent).
package cache
