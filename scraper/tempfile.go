package scraper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WithTempFile writes data to a fresh ocr-<uuid>.pdf under dir, hands its path
// to fn and removes it again however fn returns.
func WithTempFile(dir string, data []byte, fn func(path string) error) (err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "ocr-"+uuid.NewString()+".pdf")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = fmt.Errorf("failed to remove temp file: %w", rmErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}

	return fn(path)
}

// WithTempDir is WithTempFile for tools that write several outputs.
func WithTempDir(dir string, fn func(path string) error) (err error) {
	path, err := os.MkdirTemp(dir, "ocr-"+uuid.NewString()+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(path); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove temp dir: %w", rmErr)
		}
	}()
	return fn(path)
}
