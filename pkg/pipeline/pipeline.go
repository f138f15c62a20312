// Package pipeline provides the load → layout → render → save pipeline for
// squaremap.
//
// The CLI and the HTTP server both drive the pipeline through a [Runner],
// so caching, validation, and logging behave the same for every entry point.
//
// # Stages
//
//  1. Load: read a CSV or Excel file and tally it into a [data.Table]
//  2. Layout: build a two-level [treemap.Treemap] on the canvas
//  3. Render: encode the treemap in an output [sink.Format]
//  4. Save: write the artifact atomically to the output path
//
// Each stage can be run on its own. Stage results are cached by the hash of
// their input plus the options that affect them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataPath:   "Sample - Superstore.xlsx",
//	    OutputPath: "treemap.png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.RunID, len(result.Artifact))
package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/squaremap/pkg/cache"
	"github.com/matzehuels/squaremap/pkg/data"
	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/sink"
	"github.com/matzehuels/squaremap/pkg/treemap"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 300

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 300

	// DefaultFormat is used when neither Format nor an output extension
	// names one.
	DefaultFormat = sink.FormatPNG

	// DefaultBackground is the canvas fill.
	DefaultBackground = "#ffffff"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It supports JSON
// serialization for logging and API use.
type Options struct {
	// Load options
	DataPath          string     `json:"data_path,omitempty"`
	Kind              data.Kind  `json:"kind,omitempty"` // inferred from DataPath when empty
	CategoryColumn    string     `json:"category_column,omitempty"`
	SubcategoryColumn string     `json:"subcategory_column,omitempty"`
	Sheet             string     `json:"sheet,omitempty"`
	Order             data.Order `json:"order,omitempty"`
	Refresh           bool       `json:"refresh,omitempty"` // bypass cache reads

	// Layout options
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Render options
	Format     sink.Format `json:"format,omitempty"`
	Background string      `json:"background,omitempty"` // hex color
	Stroke     float64     `json:"stroke,omitempty"`     // 0 selects sink.DefaultStroke
	NoStroke   bool        `json:"no_stroke,omitempty"`

	// Save options
	OutputPath string `json:"output_path,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID is a short random identifier for log correlation.
	RunID string

	// Table is the tallied input.
	Table data.Table

	// TableHash is the content hash of Table.
	TableHash string

	// Treemap is the computed layout.
	Treemap treemap.Treemap

	// Artifact is the encoded output.
	Artifact []byte

	// Format is the format of Artifact.
	Format sink.Format

	// OutputPath is where Artifact was written; empty when not saved.
	OutputPath string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Categories    int
	Subcategories int
	Records       int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
	SaveTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ParseBackground parses a hex color such as "#fff" or "f8f8f8".
func ParseBackground(s string) (color.RGBA, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid background color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. Errors are prefixed with the stage whose options are invalid
// ("load: ", "layout: ", "render: ", "save: "). It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := o.ValidateForLayout(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := o.ValidateForRender(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if o.OutputPath != "" {
		if err := apperrors.ValidateOutputPath(o.OutputPath); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	o.validated = true
	return nil
}

// SetLoadDefaults sets default values for loading.
func (o *Options) SetLoadDefaults() {
	if o.CategoryColumn == "" {
		o.CategoryColumn = data.DefaultCategoryColumn
	}
	if o.SubcategoryColumn == "" {
		o.SubcategoryColumn = data.DefaultSubcategoryColumn
	}
	if o.Order == "" {
		o.Order = data.OrderCount
	}
	o.setLogger()
}

// ValidateForLoad checks the data source and tally options.
func (o *Options) ValidateForLoad() error {
	o.SetLoadDefaults()
	if o.DataPath == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "data path is required")
	}
	if o.Kind == "" {
		kind, err := data.KindFromPath(o.DataPath)
		if err != nil {
			return err
		}
		o.Kind = kind
	}
	return o.TableOptions().Validate()
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return apperrors.ValidateCanvas(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering. The format falls back
// to the output path's extension, then to PNG.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" && o.OutputPath != "" {
		if f, err := sink.FormatFromPath(o.OutputPath); err == nil {
			o.Format = f
		}
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Stroke == 0 {
		o.Stroke = sink.DefaultStroke
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	f, err := sink.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if o.Stroke < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "stroke must not be negative, got %g", o.Stroke)
	}
	_, err = ParseBackground(o.Background)
	return err
}

// TableOptions returns the tally options.
func (o *Options) TableOptions() data.Options {
	return data.Options{
		CategoryColumn:    o.CategoryColumn,
		SubcategoryColumn: o.SubcategoryColumn,
		Sheet:             o.Sheet,
		Order:             o.Order,
	}
}

// SinkOptions returns the render options. The background must already be
// valid.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithStroke(o.StrokeWidth())}
	if bg, err := ParseBackground(o.Background); err == nil {
		opts = append(opts, sink.WithBackground(bg))
	}
	return opts
}

// StrokeWidth returns the effective outline width.
func (o *Options) StrokeWidth() float64 {
	if o.NoStroke {
		return 0
	}
	return o.Stroke
}

// TableKeyOpts returns cache key options for tallying.
func (o *Options) TableKeyOpts(kind data.Kind) cache.TableKeyOpts {
	return cache.TableKeyOpts{
		Kind:              string(kind),
		CategoryColumn:    strings.ToLower(strings.TrimSpace(o.CategoryColumn)),
		SubcategoryColumn: strings.ToLower(strings.TrimSpace(o.SubcategoryColumn)),
		Sheet:             o.Sheet,
		Order:             string(o.Order),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     string(o.Format),
		Background: strings.ToLower(o.Background),
		Stroke:     o.StrokeWidth(),
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
