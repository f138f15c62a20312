package layout

import "fmt"

// Axis names one of the two rectangle dimensions.
type Axis int

const (
	// AxisWidth is the horizontal dimension.
	AxisWidth Axis = iota
	// AxisHeight is the vertical dimension.
	AxisHeight
)

// String returns "width" or "height".
func (a Axis) String() string {
	if a == AxisHeight {
		return "height"
	}
	return "width"
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisHeight {
		return AxisWidth
	}
	return AxisHeight
}

// MarshalText encodes the axis by name.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "width" or "height".
func (a *Axis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "width":
		*a = AxisWidth
	case "height":
		*a = AxisHeight
	default:
		return fmt.Errorf("unknown axis %q", text)
	}
	return nil
}

// MainAxis returns the shorter of the two dimensions. Ties favour width.
func MainAxis(width, height int) Axis {
	if width <= height {
		return AxisWidth
	}
	return AxisHeight
}

// Rect is a placed rectangle in integer pixel coordinates. Main records the
// axis that was the main axis of the strip the rectangle was sized in.
type Rect struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Main   Axis `json:"main"`
}

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width * r.Height }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether o lies within r's bounding box.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// frame is the free part of the container that strips are packed into.
type frame struct {
	x, y, w, h int
}

func (f frame) dim(a Axis) int {
	if a == AxisHeight {
		return f.h
	}
	return f.w
}

func (f frame) main() Axis { return MainAxis(f.w, f.h) }

// shrink removes a band of the given breadth from the leading edge of the
// frame along axis a.
func (f frame) shrink(a Axis, breadth int) frame {
	if a == AxisHeight {
		f.y += breadth
		f.h -= breadth
	} else {
		f.x += breadth
		f.w -= breadth
	}
	return f
}
