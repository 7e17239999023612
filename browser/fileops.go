package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrExists = errors.New("destination already exists")

// FileOps performs the file system changes the browser asks for.
type FileOps interface {
	// Move puts src inside dstDir and returns the new path.
	Move(src, dstDir string) (string, error)
	// Rename gives path a new base name and returns the new path.
	Rename(path, newName string) (string, error)
	Delete(path string) error
}

// OSFileOps works on the local filesystem. It never overwrites.
type OSFileOps struct{}

func (OSFileOps) Move(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := renameNoClobber(src, dst); err != nil {
		return "", fmt.Errorf("move %s to %s: %w", src, dstDir, err)
	}
	return dst, nil
}

func (OSFileOps) Rename(path, newName string) (string, error) {
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		return "", fmt.Errorf("rename %s: invalid name %q", path, newName)
	}
	dst := filepath.Join(filepath.Dir(path), newName)
	if err := renameNoClobber(path, dst); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return dst, nil
}

func (OSFileOps) Delete(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func renameNoClobber(src, dst string) error {
	if _, err := os.Lstat(src); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return ErrExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
