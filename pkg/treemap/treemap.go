package treemap

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/squaremap/pkg/data"
	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/layout"
)

// Treemap is a two-level layout on a Width×Height canvas. Nodes and their
// leaves keep the iteration order of the source table.
type Treemap struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Nodes  []Node `json:"nodes"`
}

// Node is a category rectangle in canvas coordinates.
type Node struct {
	Name   string      `json:"name"`
	Count  int         `json:"count"`
	Rect   layout.Rect `json:"rect"`
	Leaves []Leaf      `json:"leaves"`
}

// Leaf is a sub-category rectangle in canvas coordinates.
type Leaf struct {
	Category string      `json:"category"`
	Name     string      `json:"name"`
	Count    int         `json:"count"`
	Rect     layout.Rect `json:"rect"`
	Color    color.RGBA  `json:"color"`
}

// Build lays out t on a width×height canvas.
//
// Category areas are allocated over the whole canvas; sub-category areas
// are allocated over the area of their category's rectangle. A category
// whose rectangle has no area gets zero-size leaves at its origin.
//
// Build fails with DEGENERATE_INPUT when the canvas has no area or the table
// has no records.
func Build(t data.Table, width, height int) (Treemap, error) {
	if width <= 0 || height <= 0 {
		return Treemap{}, apperrors.New(apperrors.ErrCodeDegenerateInput, "canvas %dx%d has no area", width, height)
	}
	areas, err := layout.Allocate(width*height, t.Weights())
	if err != nil {
		return Treemap{}, fmt.Errorf("categories: %w", err)
	}
	rects := layout.Squarify(width, height, areas)

	tm := Treemap{Width: width, Height: height, Nodes: make([]Node, len(t.Categories))}
	for i, c := range t.Categories {
		leaves, err := buildLeaves(i, c, rects[i])
		if err != nil {
			return Treemap{}, fmt.Errorf("category %q: %w", c.Name, err)
		}
		tm.Nodes[i] = Node{Name: c.Name, Count: c.Count, Rect: rects[i], Leaves: leaves}
	}
	return tm, nil
}

func buildLeaves(category int, c data.Category, parent layout.Rect) ([]Leaf, error) {
	n := len(c.Subcategories)
	if n == 0 {
		return nil, apperrors.New(apperrors.ErrCodeDegenerateInput, "category has no sub-category records")
	}

	var local []layout.Rect
	if !parent.Empty() {
		areas, err := layout.Allocate(parent.Area(), c.Weights())
		if err != nil {
			return nil, err
		}
		local = layout.Squarify(parent.Width, parent.Height, areas)
	}

	leaves := make([]Leaf, n)
	for j, sub := range c.Subcategories {
		r := layout.Rect{X: parent.X, Y: parent.Y}
		if local != nil {
			r = local[j].Translate(parent.X, parent.Y)
		}
		leaves[j] = Leaf{
			Category: c.Name,
			Name:     sub.Name,
			Count:    sub.Count,
			Rect:     r,
			Color:    ChannelColor(category, j, n),
		}
	}
	return leaves, nil
}

// Leaves returns every leaf in emission order: categories in table order,
// sub-categories in category order.
func (tm Treemap) Leaves() []Leaf {
	var out []Leaf
	for _, n := range tm.Nodes {
		out = append(out, n.Leaves...)
	}
	return out
}

// ColorsWrap reports whether some categories share a color channel.
func (tm Treemap) ColorsWrap() bool { return len(tm.Nodes) > Channels }

// Validate checks that every node lies on the canvas and every leaf lies in
// its node.
func (tm Treemap) Validate() error {
	canvas := layout.Rect{Width: tm.Width, Height: tm.Height}
	for _, n := range tm.Nodes {
		if n.Rect.Width < 0 || n.Rect.Height < 0 || !canvas.Contains(n.Rect) {
			return apperrors.New(apperrors.ErrCodeInternal, "category %q at %s lies outside the %dx%d canvas", n.Name, n.Rect, tm.Width, tm.Height)
		}
		for _, l := range n.Leaves {
			if l.Rect.Width < 0 || l.Rect.Height < 0 || !n.Rect.Contains(l.Rect) {
				return apperrors.New(apperrors.ErrCodeInternal, "sub-category %q at %s lies outside category %q at %s", l.Name, l.Rect, n.Name, n.Rect)
			}
		}
	}
	return nil
}
