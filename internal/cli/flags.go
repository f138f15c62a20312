package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/squaremap/pkg/config"
	"github.com/matzehuels/squaremap/pkg/data"
	"github.com/matzehuels/squaremap/pkg/pipeline"
	"github.com/matzehuels/squaremap/pkg/sink"
)

// flags holds the command-line options shared by render, inspect and serve.
type flags struct {
	dataPath          string
	outputPath        string
	kind              string
	width             int
	height            int
	format            string
	background        string
	stroke            float64
	noStroke          bool
	order             string
	categoryColumn    string
	subcategoryColumn string
	sheet             string
	configPath        string
	noCache           bool
	refresh           bool
}

func (f *flags) register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVarP(&f.dataPath, "data-path", "d", "", "input table (.csv or .xlsx)")
	pf.StringVar(&f.kind, "kind", "", "input kind: csv, xlsx (default: from extension)")
	pf.IntVar(&f.width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	pf.IntVar(&f.height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	pf.StringVar(&f.format, "format", "", "output format: "+formatList()+" (default: from output extension, else png)")
	pf.StringVar(&f.background, "background", pipeline.DefaultBackground, "background color (hex)")
	pf.Float64Var(&f.stroke, "stroke", sink.DefaultStroke, "leaf outline width")
	pf.BoolVar(&f.noStroke, "no-stroke", false, "draw leaves without outlines")
	pf.StringVar(&f.order, "order", string(data.OrderCount), "category order: count, appearance, name")
	pf.StringVar(&f.categoryColumn, "category-column", data.DefaultCategoryColumn, "category column header")
	pf.StringVar(&f.subcategoryColumn, "subcategory-column", data.DefaultSubcategoryColumn, "sub-category column header")
	pf.StringVar(&f.sheet, "sheet", "", "workbook sheet (default: first sheet)")
	pf.StringVar(&f.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/squaremap/config.toml)")
	pf.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	pf.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")

	root.Flags().StringVarP(&f.outputPath, "output-path", "o", "", "output file (default: data path with the format's extension)")
}

// merge copies config values into every flag the user did not set.
func (f *flags) merge(cmd *cobra.Command, cfg config.Config) {
	setInt := func(name string, dst *int, v int) {
		if v != 0 && !changed(cmd, name) {
			*dst = v
		}
	}
	setString := func(name string, dst *string, v string) {
		if v != "" && !changed(cmd, name) {
			*dst = v
		}
	}

	setInt("width", &f.width, cfg.Width)
	setInt("height", &f.height, cfg.Height)
	setString("format", &f.format, cfg.Format)
	setString("background", &f.background, cfg.Background)
	setString("order", &f.order, cfg.Order)
	setString("category-column", &f.categoryColumn, cfg.CategoryColumn)
	setString("subcategory-column", &f.subcategoryColumn, cfg.SubcategoryColumn)
	setString("sheet", &f.sheet, cfg.Sheet)

	if cfg.Stroke != nil && !changed(cmd, "stroke") && !changed(cmd, "no-stroke") {
		f.stroke = *cfg.Stroke
		f.noStroke = *cfg.Stroke == 0
	}
	if cfg.NoCache && !changed(cmd, "no-cache") {
		f.noCache = true
	}
}

// options converts the flags into pipeline options.
func (f *flags) options() pipeline.Options {
	opts := pipeline.Options{
		DataPath:          f.dataPath,
		Kind:              data.Kind(strings.ToLower(f.kind)),
		CategoryColumn:    f.categoryColumn,
		SubcategoryColumn: f.subcategoryColumn,
		Sheet:             f.sheet,
		Order:             data.Order(f.order),
		Refresh:           f.refresh,
		Width:             f.width,
		Height:            f.height,
		Format:            sink.Format(f.format),
		Background:        f.background,
		Stroke:            f.stroke,
		NoStroke:          f.noStroke || f.stroke == 0,
		OutputPath:        f.outputPath,
	}
	if opts.OutputPath == "" && opts.DataPath != "" {
		opts.OutputPath = defaultOutputPath(opts.DataPath, opts.Format)
	}
	return opts
}

// defaultOutputPath replaces the data file's extension with the format's.
func defaultOutputPath(dataPath string, format sink.Format) string {
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if f, err := sink.ParseFormat(string(format)); err == nil {
		format = f
	}
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + format.Ext()
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

func formatList() string {
	names := make([]string, len(sink.Formats))
	for i, f := range sink.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
