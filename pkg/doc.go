// Package pkg provides the libraries behind squaremap.
//
// # Overview
//
// Squaremap turns a table of records into a two-level squarified treemap:
// one rectangle per category, subdivided into one rectangle per
// sub-category, each sized by its record count. The packages are:
//
//  1. [data] - Reading CSV and Excel tables and tallying two-level counts
//  2. [layout] - Integer area allocation and the squarified strip layout
//  3. [treemap] - Category and sub-category orchestration plus colors
//  4. [sink] - Raster, SVG, PDF and JSON encoders
//  5. [pipeline] - Orchestration (load → layout → render → save) with caching
//  6. [cache], [config], [errors], [observability], [buildinfo] - Support
//
// # Architecture
//
//	CSV / XLSX file
//	       ↓
//	 [data] Table (category → sub-category → count)
//	       ↓
//	 [treemap] Build → [layout] Allocate + Squarify
//	       ↓
//	 [sink] Render → PNG/BMP/TIFF/SVG/PDF/JSON
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataPath:   "orders.csv",
//	    OutputPath: "orders.png",
//	})
//
// [data]: github.com/matzehuels/squaremap/pkg/data
// [layout]: github.com/matzehuels/squaremap/pkg/layout
// [treemap]: github.com/matzehuels/squaremap/pkg/treemap
// [sink]: github.com/matzehuels/squaremap/pkg/sink
// [pipeline]: github.com/matzehuels/squaremap/pkg/pipeline
// [cache]: github.com/matzehuels/squaremap/pkg/cache
// [config]: github.com/matzehuels/squaremap/pkg/config
// [errors]: github.com/matzehuels/squaremap/pkg/errors
// [observability]: github.com/matzehuels/squaremap/pkg/observability
// [buildinfo]: github.com/matzehuels/squaremap/pkg/buildinfo
package pkg
