package sink

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/squaremap/pkg/treemap"
)

// RenderPDF renders tm on a single PDF page whose size in points equals the
// canvas size in pixels.
func RenderPDF(tm treemap.Treemap, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: float64(tm.Width), Ht: float64(tm.Height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	bg := o.background
	pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	pdf.Rect(0, 0, float64(tm.Width), float64(tm.Height), "F")

	style := "F"
	if o.stroke > 0 {
		style = "FD"
		pdf.SetLineWidth(o.stroke)
	}
	for _, c := range Commands(tm) {
		if c.Empty() {
			continue
		}
		pdf.SetFillColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
		pdf.SetDrawColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
		pdf.Rect(float64(c.X0), float64(c.Y0), float64(c.Width()), float64(c.Height()), style)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
