// Package sink renders treemaps to output formats.
//
// # Overview
//
// A sink turns a computed [treemap.Treemap] into bytes. Every format draws
// the same ordered sequence of [Command] values produced by [Commands]: one
// filled rectangle per leaf, in emission order, over a background fill.
//
//   - PNG: raster image (the default format)
//   - BMP, TIFF: the same raster in other containers
//   - SVG: vector image, one <rect> per command
//   - PDF: single page sized to the canvas in points
//   - JSON: layout export with rectangles and colors
//
// # Usage
//
//	png, err := sink.Render(sink.FormatPNG, tm,
//	    sink.WithBackground(color.RGBA{255, 255, 255, 255}),
//	    sink.WithStroke(0.5),
//	)
//
// [FormatFromPath] picks the format from an output file name. No text is
// drawn in any format.
package sink
