// Package cache stores intermediate pipeline results between runs.
//
// The rendering pipeline has three cacheable stages: tallying a data file
// into a frequency table, laying the table out on a canvas, and encoding the
// layout into an output format. Each stage has its own key family produced
// by a [Keyer] and its own TTL.
//
// [FileCache] keeps entries as JSON files under a directory (the CLI uses
// $XDG_CACHE_HOME/squaremap). [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage.
const (
	TTLTable    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TableKeyOpts are the tally options that affect a cached table.
type TableKeyOpts struct {
	Kind              string `json:"kind"`
	CategoryColumn    string `json:"category_column"`
	SubcategoryColumn string `json:"subcategory_column"`
	Sheet             string `json:"sheet,omitempty"`
	Order             string `json:"order"`
}

// LayoutKeyOpts are the canvas options that affect a cached treemap.
type LayoutKeyOpts struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ArtifactKeyOpts are the render options that affect a cached artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Background string  `json:"background"`
	Stroke     float64 `json:"stroke"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// TableKey keys a tally by the hash of the raw data file.
	TableKey(dataHash string, opts TableKeyOpts) string
	// LayoutKey keys a treemap by the hash of its table.
	LayoutKey(tableHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys an encoded output by the hash of its treemap.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TableKey(dataHash string, opts TableKeyOpts) string {
	return hashKey("table", dataHash, opts)
}

func (DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
