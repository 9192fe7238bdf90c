package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StagingDirName is the directory inside the tmp dir where tools write
// before their output is renamed into place.
const StagingDirName = ".staging"

// Replaceable so tests can simulate cross-device renames.
var renameFunc = os.Rename

// Exists reports whether path exists. Errors other than not-exist count as
// existing so callers never overwrite something they cannot inspect.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// StagingPath returns the staging location for name under dir, creating the
// staging directory.
func StagingPath(dir, name string) (string, error) {
	staging := filepath.Join(dir, StagingDirName)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return filepath.Join(staging, name), nil
}

// Move renames src to dst. Renames across filesystems fall back to copying
// into a temporary file beside dst, renaming that, and removing src.
func Move(src, dst string) error {
	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s across devices: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Same directory, so this rename cannot cross devices
	return os.Rename(tmpName, dst)
}
