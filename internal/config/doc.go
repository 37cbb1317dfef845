// Package config loads and merges bigpicture configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (BIGPICTURE_OUTPUT_DIR, BIGPICTURE_CACHE_DIR, etc.)
//  3. Config file ($XDG_CONFIG_HOME/bigpicture/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to persist one, and
// [SetField] to update a single key.
package config
