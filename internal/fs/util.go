package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/akeil/spritetool/internal/logging"
)

// Move moves a file from src to dst.
// It tries os.Rename() first and falls back on "copy and delete".
//
// If src cannot be deleted after a successful copy,
// NO error is returned and src remains as it was.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	// Rename may have failed when moving across file systems
	// so try again w/ copy & delete.
	logging.Debug("Rename failed for %v -> %v, fall back on copy and delete", src, dst)
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	if err != nil {
		w.Close()
		return err
	}
	err = w.Close()
	if err != nil {
		return err
	}

	ignoredErr := os.Remove(src)
	if ignoredErr != nil {
		logging.Error("Failed to remove file %v", src)
	}

	return nil
}

// TempPath returns a unique path for a temporary file in the same
// directory as path, so that a later rename stays on one file system.
func TempPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%v.%v.tmp", name, uuid.New()))
}

// WriteTemp creates a temporary sibling of path, lets write fill it and
// returns the temporary path. On error, the temporary file is removed.
// The parent directory of path is created if necessary.
func WriteTemp(path string, write func(w io.Writer) error) (string, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return "", err
	}

	tmp := TempPath(path)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(f)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return "", err
	}

	return tmp, nil
}

// WriteAtomic writes to path via a temporary file and a rename.
// Readers of path either see the previous content or the complete new one.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := WriteTemp(path, write)
	if err != nil {
		return err
	}

	err = Move(tmp, path)
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
