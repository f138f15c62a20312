package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := Save(path, []byte("first")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := Save(path, []byte("second")); err != nil {
		t.Fatalf("Save() overwrite error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the output", len(entries))
	}
}

func TestSaveFailures(t *testing.T) {
	dir := t.TempDir()

	err := Save(filepath.Join(dir, "missing", "out.png"), []byte("x"))
	if !apperrors.Is(err, apperrors.ErrCodeIOWrite) {
		t.Errorf("Save() into missing dir error = %v, want IO_WRITE", err)
	}

	// a directory in the way of the rename
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err = Save(target, []byte("x"))
	if !apperrors.Is(err, apperrors.ErrCodeIOWrite) {
		t.Errorf("Save() over a directory error = %v, want IO_WRITE", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}

	if err := Save("", []byte("x")); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Save(\"\") error = %v, want INVALID_INPUT", err)
	}
}
