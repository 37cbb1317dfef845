package cache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "modernc.org/sqlite"
)

// schemaVersion is the latest cache schema. Bump when adding migrations.
const schemaVersion = 1

// Cache is an SQLite-backed TTL cache for check-run API responses.
// A disabled cache is valid and turns every operation into a no-op.
type Cache struct {
	db         *sql.DB
	ttlSeconds int
	enabled    bool
	dir        string
}

// New opens (or creates) the cache database. If dir is empty, the
// platform cache directory is used.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "bigpicture.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db:         db,
		ttlSeconds: ttlSeconds,
		enabled:    true,
		dir:        dir,
	}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key        TEXT PRIMARY KEY,
			response   TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating cache schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return nil
}

// Get retrieves a cached response by key. Returns ("", false) on miss
// or when the entry has outlived its TTL; expired entries are removed.
func (c *Cache) Get(key string) (string, bool) {
	if !c.enabled {
		return "", false
	}
	hashed := HashKey(key)
	var response string
	var createdAt int64
	err := c.db.QueryRow(
		"SELECT response, created_at FROM entries WHERE key = ?", hashed,
	).Scan(&response, &createdAt)
	if err != nil {
		return "", false
	}
	if c.ttlSeconds > 0 && time.Since(time.Unix(createdAt, 0)) > time.Duration(c.ttlSeconds)*time.Second {
		c.db.Exec("DELETE FROM entries WHERE key = ?", hashed)
		return "", false
	}
	return response, true
}

// Put stores a response in the cache, replacing any prior entry.
func (c *Cache) Put(key, response string) error {
	if !c.enabled {
		return nil
	}
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO entries (key, response, created_at) VALUES (?, ?, ?)",
		HashKey(key), response, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	if _, err := c.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats returns cache statistics.
type Stats struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
	Expired int    `json:"expired"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled {
		return stats, nil
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&stats.Entries); err != nil {
		return stats, fmt.Errorf("counting cache entries: %w", err)
	}
	if c.ttlSeconds > 0 {
		cutoff := time.Now().Add(-time.Duration(c.ttlSeconds) * time.Second).Unix()
		err := c.db.QueryRow(
			"SELECT COUNT(*) FROM entries WHERE created_at < ?", cutoff,
		).Scan(&stats.Expired)
		if err != nil {
			return stats, fmt.Errorf("counting expired entries: %w", err)
		}
	}
	return stats, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if !c.enabled || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// BuildKey creates a cache key for a commit's check runs.
func BuildKey(owner, repo, sha string) string {
	return fmt.Sprintf("checks:%s/%s:%s", owner, repo, sha)
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "bigpicture"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "bigpicture"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "bigpicture", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "bigpicture", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "bigpicture"), nil
	}
}
