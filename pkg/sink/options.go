package sink

import "image/color"

// DefaultStroke is the outline width drawn around every rectangle.
const DefaultStroke = 0.5

// DefaultBackground is the canvas fill behind the rectangles.
var DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Option configures rendering.
type Option func(*options)

type options struct {
	background color.RGBA
	stroke     float64
}

// WithBackground sets the canvas fill (default white).
func WithBackground(c color.Color) Option {
	return func(o *options) { o.background = toRGBA(c) }
}

// WithStroke sets the outline width, drawn in each rectangle's own fill
// color. Zero disables outlines.
func WithStroke(w float64) Option {
	return func(o *options) { o.stroke = max(w, 0) }
}

func newOptions(opts ...Option) options {
	o := options{background: DefaultBackground, stroke: DefaultStroke}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
