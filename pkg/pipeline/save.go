package pipeline

import (
	"os"
	"path/filepath"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

// Save writes data to path through a temporary file in the same directory
// and a rename, so path is either fully written or left untouched. Failures
// are reported as IO_WRITE.
func Save(path string, data []byte) error {
	if err := apperrors.ValidateOutputPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIOWrite, err, "create %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrCodeIOWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIOWrite, err, "write %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIOWrite, err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIOWrite, err, "rename into %s", path)
	}
	return nil
}
