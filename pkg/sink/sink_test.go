package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/squaremap/pkg/data"
	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/treemap"
)

func buildTreemap(t *testing.T, width, height int) treemap.Treemap {
	t.Helper()
	table := data.Table{Categories: []data.Category{
		{Name: "Office Supplies", Count: 6, Subcategories: []data.Count{{Name: "Paper", Count: 4}, {Name: "Binders", Count: 2}}},
		{Name: "Furniture", Count: 3, Subcategories: []data.Count{{Name: "Chairs", Count: 2}, {Name: "Tables", Count: 1}}},
		{Name: "Technology", Count: 1, Subcategories: []data.Count{{Name: "Phones & <Tablets>", Count: 1}}},
	}}
	tm, err := treemap.Build(table, width, height)
	require.NoError(t, err)
	return tm
}

func TestCommands(t *testing.T) {
	tm := buildTreemap(t, 40, 20)
	cmds := Commands(tm)
	leaves := tm.Leaves()
	require.Len(t, cmds, len(leaves))

	for i, c := range cmds {
		l := leaves[i]
		assert.Equal(t, l.Rect.X, c.X0)
		assert.Equal(t, l.Rect.Y, c.Y0)
		assert.Equal(t, l.Rect.Right(), c.X1)
		assert.Equal(t, l.Rect.Bottom(), c.Y1)
		assert.Equal(t, l.Color, c.Fill)
		assert.Equal(t, l.Rect.Width, c.Width())
	}
}

func assertLeafPixels(t *testing.T, tm treemap.Treemap, img image.Image) {
	t.Helper()
	require.Equal(t, image.Rect(0, 0, tm.Width, tm.Height), img.Bounds())
	for _, l := range tm.Leaves() {
		if l.Rect.Empty() {
			continue
		}
		x, y := l.Rect.X+l.Rect.Width/2, l.Rect.Y+l.Rect.Height/2
		got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
		assert.Equal(t, l.Color, got, "pixel (%d,%d) of %s/%s", x, y, l.Category, l.Name)
	}
}

func TestRenderPNG(t *testing.T) {
	tm := buildTreemap(t, 60, 40)
	out, err := RenderPNG(tm, WithStroke(0))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assertLeafPixels(t, tm, img)
}

func TestRenderPNGDefaultStroke(t *testing.T) {
	tm := buildTreemap(t, 30, 30)
	out, err := RenderPNG(tm)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestRasterizeBackground(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	img := Rasterize(treemap.Treemap{Width: 5, Height: 4}, WithBackground(bg))
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, bg, color.RGBAModel.Convert(img.At(x, y)))
		}
	}
}

func TestRenderBMPAndTIFF(t *testing.T) {
	tm := buildTreemap(t, 50, 30)

	out, err := RenderBMP(tm, WithStroke(0))
	require.NoError(t, err)
	img, err := bmp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assertLeafPixels(t, tm, img)

	out, err = RenderTIFF(tm, WithStroke(0))
	require.NoError(t, err)
	img, err = tiff.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assertLeafPixels(t, tm, img)
}

func TestRenderSVG(t *testing.T) {
	tm := buildTreemap(t, 100, 80)
	svg := string(RenderSVG(tm))

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 80"`))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Equal(t, len(tm.Leaves())+1, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, `fill="#ffffff"`)
	assert.Contains(t, svg, `stroke-width="0.5"`)
	assert.Contains(t, svg, `data-name="Phones &amp; &lt;Tablets&gt;"`)
	assert.NotContains(t, svg, "<Tablets>")
}

func TestRenderSVGNoStroke(t *testing.T) {
	tm := buildTreemap(t, 100, 80)
	svg := string(RenderSVG(tm, WithStroke(0)))
	assert.NotContains(t, svg, "stroke=")
}

func TestRenderPDF(t *testing.T) {
	tm := buildTreemap(t, 300, 200)
	out, err := RenderPDF(tm)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderJSON(t *testing.T) {
	tm := buildTreemap(t, 40, 20)
	out, err := RenderJSON(tm, WithBackground(color.RGBA{A: 255}))
	require.NoError(t, err)

	var got jsonOutput
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, 40, got.Width)
	assert.Equal(t, 20, got.Height)
	assert.Equal(t, "#000000", got.Background)
	require.Len(t, got.Categories, 3)
	assert.Equal(t, "Office Supplies", got.Categories[0].Name)
	require.Len(t, got.Categories[0].Leaves, 2)
	assert.Equal(t, "#ff0000", got.Categories[0].Leaves[1].Color)
	assert.Equal(t, "#0000ff", got.Categories[2].Leaves[0].Color)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"tif", FormatTIFF, false},
		{" svg ", FormatSVG, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFormat), "ParseFormat(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/treemap.PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = FormatFromPath("treemap")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFormat))

	_, err = FormatFromPath("treemap.gif")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFormat))
}

func TestRenderDispatch(t *testing.T) {
	tm := buildTreemap(t, 20, 20)
	for _, f := range Formats {
		out, err := Render(f, tm)
		require.NoError(t, err, "format %s", f)
		assert.NotEmpty(t, out, "format %s", f)
		assert.NotEqual(t, "application/octet-stream", f.ContentType())
	}

	_, err := Render("gif", tm)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFormat))
}
