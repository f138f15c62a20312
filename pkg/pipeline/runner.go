package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/squaremap/pkg/cache"
	"github.com/matzehuels/squaremap/pkg/data"
	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/observability"
	"github.com/matzehuels/squaremap/pkg/sink"
	"github.com/matzehuels/squaremap/pkg/treemap"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → layout → render, and save when opts.OutputPath is set.
// Stage failures are prefixed with the stage name.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:  uuid.New().String()[:8],
		Format: opts.Format,
	}
	logger := r.Logger.With("run", result.RunID)

	// Stage 1: Load
	start := time.Now()
	table, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Table = table
	result.TableHash, _ = cache.HashJSON(table)
	result.Stats.LoadTime = time.Since(start)
	result.Stats.Categories = len(table.Categories)
	result.Stats.Subcategories = table.Subcategories()
	result.Stats.Records = table.Total()
	result.CacheInfo.LoadHit = loadHit

	logger.Info("loaded table",
		"categories", result.Stats.Categories,
		"subcategories", result.Stats.Subcategories,
		"records", result.Stats.Records,
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	start = time.Now()
	tm, layoutHit, err := r.LayoutWithCacheInfo(ctx, table, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Treemap = tm
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = layoutHit

	if tm.ColorsWrap() {
		logger.Warn("more categories than color channels; colors repeat",
			"categories", len(tm.Nodes),
			"channels", treemap.Channels)
	}
	logger.Info("computed layout",
		"leaves", len(tm.Leaves()),
		"canvas", fmt.Sprintf("%dx%d", tm.Width, tm.Height),
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	start = time.Now()
	artifact, renderHit, err := r.RenderWithCacheInfo(ctx, tm, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)

	// Stage 4: Save
	if opts.OutputPath == "" {
		return result, nil
	}
	start = time.Now()
	err = Save(opts.OutputPath, artifact)
	observability.Pipeline().OnSave(ctx, opts.OutputPath, len(artifact), err)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	result.OutputPath = opts.OutputPath
	result.Stats.SaveTime = time.Since(start)

	logger.Debug("saved output", "path", opts.OutputPath, "duration", result.Stats.SaveTime)
	return result, nil
}

// LoadWithCacheInfo reads opts.DataPath and tallies it, returning whether
// the table came from the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (data.Table, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return data.Table{}, false, err
	}

	raw, err := os.ReadFile(opts.DataPath)
	if os.IsNotExist(err) {
		return data.Table{}, false, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "data file %s", opts.DataPath)
	}
	if err != nil {
		return data.Table{}, false, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "read %s", opts.DataPath)
	}

	observability.Pipeline().OnLoadStart(ctx, opts.DataPath)
	start := time.Now()
	table, hit, err := r.LoadBytesWithCacheInfo(ctx, raw, opts.Kind, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.DataPath, len(table.Categories), table.Total(), time.Since(start), err)
	return table, hit, err
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (data.Table, error) {
	table, _, err := r.LoadWithCacheInfo(ctx, opts)
	return table, err
}

// LoadBytesWithCacheInfo tallies an in-memory data file of the given kind.
func (r *Runner) LoadBytesWithCacheInfo(ctx context.Context, raw []byte, kind data.Kind, opts Options) (data.Table, bool, error) {
	opts.SetLoadDefaults()
	r.applyLogger(&opts)
	if err := opts.TableOptions().Validate(); err != nil {
		return data.Table{}, false, err
	}

	cacheKey := r.Keyer.TableKey(cache.Hash(raw), opts.TableKeyOpts(kind))
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var table data.Table
			if err := json.Unmarshal(cached, &table); err == nil {
				r.cacheHit(ctx, "table")
				return table, true, nil
			}
		}
	}
	r.cacheMiss(ctx, "table")

	table, err := data.Read(bytes.NewReader(raw), kind, opts.TableOptions())
	if err != nil {
		return data.Table{}, false, err
	}
	if encoded, err := json.Marshal(table); err == nil {
		r.cacheSet(ctx, "table", cacheKey, encoded, cache.TTLTable)
	}
	return table, false, nil
}

// LoadBytes is a convenience wrapper that calls LoadBytesWithCacheInfo and
// discards the cache hit info.
func (r *Runner) LoadBytes(ctx context.Context, raw []byte, kind data.Kind, opts Options) (data.Table, error) {
	table, _, err := r.LoadBytesWithCacheInfo(ctx, raw, kind, opts)
	return table, err
}

// LayoutWithCacheInfo builds the treemap for table with caching.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, table data.Table, opts Options) (treemap.Treemap, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return treemap.Treemap{}, false, err
	}
	r.applyLogger(&opts)

	tableHash, err := cache.HashJSON(table)
	if err != nil {
		return treemap.Treemap{}, false, apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash table")
	}
	cacheKey := r.Keyer.LayoutKey(tableHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var tm treemap.Treemap
			if err := json.Unmarshal(cached, &tm); err == nil {
				r.cacheHit(ctx, "layout")
				return tm, true, nil
			}
		}
	}
	r.cacheMiss(ctx, "layout")

	observability.Pipeline().OnLayoutStart(ctx, opts.Width, opts.Height, len(table.Categories))
	start := time.Now()
	tm, err := treemap.Build(table, opts.Width, opts.Height)
	observability.Pipeline().OnLayoutComplete(ctx, len(tm.Leaves()), time.Since(start), err)
	if err != nil {
		return treemap.Treemap{}, false, err
	}

	if encoded, err := json.Marshal(tm); err == nil {
		r.cacheSet(ctx, "layout", cacheKey, encoded, cache.TTLLayout)
	}
	return tm, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, table data.Table, opts Options) (treemap.Treemap, error) {
	tm, _, err := r.LayoutWithCacheInfo(ctx, table, opts)
	return tm, err
}

// RenderWithCacheInfo encodes tm in opts.Format with caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tm treemap.Treemap, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutHash, err := cache.HashJSON(tm)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInternal, err, "hash layout")
	}
	cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			r.cacheHit(ctx, "artifact")
			return cached, true, nil
		}
	}
	r.cacheMiss(ctx, "artifact")

	observability.Pipeline().OnRenderStart(ctx, string(opts.Format))
	start := time.Now()
	artifact, err := sink.Render(opts.Format, tm, opts.SinkOptions()...)
	observability.Pipeline().OnRenderComplete(ctx, string(opts.Format), len(artifact), time.Since(start), err)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode %s", opts.Format)
	}

	r.cacheSet(ctx, "artifact", cacheKey, artifact, cache.TTLArtifact)
	return artifact, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, tm treemap.Treemap, opts Options) ([]byte, error) {
	artifact, _, err := r.RenderWithCacheInfo(ctx, tm, opts)
	return artifact, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cacheHit(ctx context.Context, keyType string) {
	r.Logger.Debug("cache hit", "stage", keyType)
	observability.Cache().OnCacheHit(ctx, keyType)
}

func (r *Runner) cacheMiss(ctx context.Context, keyType string) {
	observability.Cache().OnCacheMiss(ctx, keyType)
}

func (r *Runner) cacheSet(ctx context.Context, keyType, key string, value []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, value, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(value))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
