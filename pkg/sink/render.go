package sink

import (
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/treemap"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPNG, FormatBMP, FormatTIFF, FormatSVG, FormatPDF, FormatJSON}

var contentTypes = map[Format]string{
	FormatPNG:  "image/png",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat validates a format name. Matching is case-insensitive and
// accepts "tif" for TIFF.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "tif" {
		return FormatTIFF, nil
	}
	if _, ok := contentTypes[f]; ok {
		return f, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, bmp, tiff, svg, pdf, json)", s)
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "output path %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Render encodes tm in format f.
func Render(f Format, tm treemap.Treemap, opts ...Option) ([]byte, error) {
	switch f {
	case FormatPNG:
		return RenderPNG(tm, opts...)
	case FormatBMP:
		return RenderBMP(tm, opts...)
	case FormatTIFF:
		return RenderTIFF(tm, opts...)
	case FormatSVG:
		return RenderSVG(tm, opts...), nil
	case FormatPDF:
		return RenderPDF(tm, opts...)
	case FormatJSON:
		return RenderJSON(tm, opts...)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
}
