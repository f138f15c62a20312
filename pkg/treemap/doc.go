// Package treemap builds two-level squarified treemaps from frequency tables.
//
// [Build] divides the canvas among the categories of a [data.Table] in
// proportion to their record counts, then divides every category rectangle
// among its sub-categories the same way. Both levels use
// [layout.Allocate] and [layout.Squarify]; the nested layouts are computed
// in the category's local frame and translated to canvas coordinates.
//
// Each leaf is colored by [ChannelColor]: the category selects one of the
// red, green and blue channels and the sub-category's position within the
// category sets its intensity, so the last sub-category of every category is
// drawn at full intensity. Categories beyond the third reuse the channels
// in order (category 3 is red again).
//
// The package is pure: Build performs no I/O and may be called concurrently.
package treemap
