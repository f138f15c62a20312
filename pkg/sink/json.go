package sink

import (
	"encoding/json"

	"github.com/matzehuels/squaremap/pkg/treemap"
)

type jsonOutput struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Background string         `json:"background"`
	Categories []jsonCategory `json:"categories"`
}

type jsonCategory struct {
	Name   string     `json:"name"`
	Count  int        `json:"count"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Main   string     `json:"main"`
	Leaves []jsonLeaf `json:"leaves"`
}

type jsonLeaf struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Main   string `json:"main"`
	Color  string `json:"color"`
}

// RenderJSON exports the treemap geometry and colors as a pretty-printed JSON
// document. The stroke option is ignored.
func RenderJSON(tm treemap.Treemap, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)

	out := jsonOutput{
		Width:      tm.Width,
		Height:     tm.Height,
		Background: hexColor(o.background),
		Categories: make([]jsonCategory, len(tm.Nodes)),
	}
	for i, n := range tm.Nodes {
		c := jsonCategory{
			Name:   n.Name,
			Count:  n.Count,
			X:      n.Rect.X,
			Y:      n.Rect.Y,
			Width:  n.Rect.Width,
			Height: n.Rect.Height,
			Main:   n.Rect.Main.String(),
			Leaves: make([]jsonLeaf, len(n.Leaves)),
		}
		for j, l := range n.Leaves {
			c.Leaves[j] = jsonLeaf{
				Name:   l.Name,
				Count:  l.Count,
				X:      l.Rect.X,
				Y:      l.Rect.Y,
				Width:  l.Rect.Width,
				Height: l.Rect.Height,
				Main:   l.Rect.Main.String(),
				Color:  hexColor(l.Color),
			}
		}
		out.Categories[i] = c
	}
	return json.MarshalIndent(out, "", "  ")
}
