package sink

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/squaremap/pkg/treemap"
)

// RenderPNG rasterizes tm as a PNG image of tm.Width×tm.Height pixels.
func RenderPNG(tm treemap.Treemap, opts ...Option) ([]byte, error) {
	dc := rasterize(tm, newOptions(opts...))
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderBMP rasterizes tm as an uncompressed BMP image.
func RenderBMP(tm treemap.Treemap, opts ...Option) ([]byte, error) {
	img := Rasterize(tm, opts...)
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTIFF rasterizes tm as a deflate-compressed TIFF image.
func RenderTIFF(tm treemap.Treemap, opts ...Option) ([]byte, error) {
	img := Rasterize(tm, opts...)
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rasterize draws tm and returns the raster.
func Rasterize(tm treemap.Treemap, opts ...Option) image.Image {
	return rasterize(tm, newOptions(opts...)).Image()
}

func rasterize(tm treemap.Treemap, o options) *gg.Context {
	dc := gg.NewContext(tm.Width, tm.Height)
	dc.SetColor(o.background)
	dc.Clear()

	dc.SetLineWidth(o.stroke)
	for _, c := range Commands(tm) {
		if c.Empty() {
			continue
		}
		dc.DrawRectangle(float64(c.X0), float64(c.Y0), float64(c.Width()), float64(c.Height()))
		dc.SetColor(c.Fill)
		if o.stroke > 0 {
			dc.FillPreserve()
			dc.Stroke()
		} else {
			dc.Fill()
		}
	}
	return dc
}
