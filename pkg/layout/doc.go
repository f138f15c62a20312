// Package layout partitions a rectangle into sub-rectangles whose areas are
// proportional to a sequence of weights.
//
// # Overview
//
// Two steps turn weights into geometry:
//
//  1. [Allocate] scales raw weights to integer pixel areas using one global
//     coefficient (container area / total weight), truncating each result.
//  2. [Squarify] packs those areas into the container with a greedy strip
//     heuristic that keeps rectangles close to square.
//
// # Strip Packing
//
// The container's main axis is its shorter side (ties favour width). A strip
// is opened with the first remaining area and keeps absorbing the following
// areas while each one improves the strip's aspect-ratio proxy
// (main² / area) against the strip's fixed main dimension. When an area stops
// improving it, the strip is closed: its breadth along the secondary axis is
// total / main, each item spans area / breadth along the main axis, and the
// container shrinks by the breadth. The main axis is then re-evaluated, so
// successive strips alternate orientation as the free space changes shape.
//
// Areas are processed in the order given; nothing is sorted. The last
// rectangle of the last strip is stretched to the container's far corner,
// absorbing the rounding drift accumulated by integer truncation.
//
// # Coordinates
//
// [Squarify] places rectangles in the container's local frame with the
// origin at the top-left corner. Callers nesting layouts translate the
// result with [Rect.Translate].
package layout
