package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/squaremap/pkg/pipeline"
	"github.com/matzehuels/squaremap/pkg/sink"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		data   string
		format sink.Format
		want   string
	}{
		{"orders.csv", "", "orders.png"},
		{"data/orders.xlsx", sink.FormatSVG, "data/orders.svg"},
		{"orders", sink.FormatPDF, "orders.pdf"},
		{"orders.csv", "TIF", "orders.tiff"},
		{"v1.2/orders.csv", pipeline.DefaultFormat, "v1.2/orders.png"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.data, tt.format); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.data, tt.format, got, tt.want)
		}
	}
}
