package sink

import (
	"image/color"

	"github.com/matzehuels/squaremap/pkg/treemap"
)

// Command is a single draw instruction: fill the axis-aligned rectangle
// from (X0, Y0) to (X1, Y1) with Fill.
type Command struct {
	X0, Y0 int
	X1, Y1 int
	Fill   color.RGBA
}

// Width returns X1-X0.
func (c Command) Width() int { return c.X1 - c.X0 }

// Height returns Y1-Y0.
func (c Command) Height() int { return c.Y1 - c.Y0 }

// Empty reports whether the command covers no area.
func (c Command) Empty() bool { return c.Width() <= 0 || c.Height() <= 0 }

// Commands returns the draw sequence for tm, one command per leaf in
// emission order.
func Commands(tm treemap.Treemap) []Command {
	leaves := tm.Leaves()
	cmds := make([]Command, len(leaves))
	for i, l := range leaves {
		cmds[i] = Command{
			X0:   l.Rect.X,
			Y0:   l.Rect.Y,
			X1:   l.Rect.Right(),
			Y1:   l.Rect.Bottom(),
			Fill: l.Color,
		}
	}
	return cmds
}
