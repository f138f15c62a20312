package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxCanvasSide bounds either canvas dimension. Larger canvases would
// overflow the integer pixel areas the allocator works with on 32-bit hosts
// and are not useful for a raster image anyway.
const MaxCanvasSide = 20000

// MaxCanvasPixels bounds the canvas area. Raster sinks hold a full RGBA
// image in memory, 4 bytes per pixel.
const MaxCanvasPixels = 16_000_000

// ValidateCanvas checks that width and height describe a drawable canvas.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "canvas must be positive, got %dx%d", width, height)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return New(ErrCodeInvalidInput, "canvas too large (max %d per side), got %dx%d", MaxCanvasSide, width, height)
	}
	if width*height > MaxCanvasPixels {
		return New(ErrCodeInvalidInput, "canvas too large (max %d pixels), got %dx%d", MaxCanvasPixels, width, height)
	}
	return nil
}

// ValidateColumnName validates a column header name used to select the
// category or sub-category column of the source table.
//
// The validation rules are intentionally conservative:
//   - No empty names (after trimming)
//   - No control characters
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates the image destination.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must name a file, not a directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidInput, "output path must name a file: %q", path)
	}
	base := filepath.Base(path)
	if base == "." || base == ".." {
		return New(ErrCodeInvalidInput, "output path must name a file: %q", path)
	}

	return nil
}
