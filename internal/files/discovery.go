// Package files provides filesystem discovery for capture exports.
package files

import (
	"fmt"
	"os"
	"path/filepath"

	"battmerge/internal/capture"
)

// FileInfo describes a discovered capture export.
type FileInfo struct {
	Path string
	Name string
	Size int64
}

// FindCaptureFiles lists the capture exports in dir, in directory-listing
// (name) order. Non-capture entries and subdirectories are ignored.
//
// A missing or unreadable directory is an error; the caller decides whether
// that is fatal.
func FindCaptureFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !capture.IsCaptureFilename(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
			Size: info.Size(),
		})
	}
	return files, nil
}

// EnsureDirectory creates dir and any missing parents.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
