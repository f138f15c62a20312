package sink

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/matzehuels/squaremap/pkg/treemap"
)

// RenderSVG renders tm as an SVG document. Each leaf becomes a <rect>
// carrying its category and sub-category as data attributes.
func RenderSVG(tm treemap.Treemap, opts ...Option) []byte {
	o := newOptions(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		tm.Width, tm.Height, tm.Width, tm.Height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		tm.Width, tm.Height, hexColor(o.background))

	cmds := Commands(tm)
	for i, l := range tm.Leaves() {
		c := cmds[i]
		if c.Empty() {
			continue
		}
		fill := hexColor(c.Fill)
		fmt.Fprintf(&buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"`,
			c.X0, c.Y0, c.Width(), c.Height(), fill)
		if o.stroke > 0 {
			fmt.Fprintf(&buf, ` stroke="%s" stroke-width="%g"`, fill, o.stroke)
		}
		fmt.Fprintf(&buf, ` data-category="%s" data-name="%s"/>`+"\n",
			html.EscapeString(l.Category), html.EscapeString(l.Name))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
