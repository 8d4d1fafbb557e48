package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"haptic-go/internal/haptic"
)

// FileSystemSink writes published documents as flat files in a single directory,
// where actuator drivers can pick them up:
//
//	<dir>/
//	  <pattern id>.json
//	  <pattern id>.yaml
type FileSystemSink struct {
	dir string
}

// NewFileSystemSink creates a new filesystem sink writing into dir.
func NewFileSystemSink(dir string) (*FileSystemSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &FileSystemSink{dir: dir}, nil
}

// Dir returns the directory the sink writes into.
func (s *FileSystemSink) Dir() string {
	return s.dir
}

// Put stores a document. Readers never observe a partially written file.
func (s *FileSystemSink) Put(name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.writeFile(filepath.Join(s.dir, name), r, size)
}

// Get writes the named document to w.
func (s *FileSystemSink) Get(name string, w io.Writer) error {
	if err := checkName(name); err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: document %s", haptic.ErrNotFound, name)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return nil
}

// List returns the names of the documents in the directory, sorted.
// Subdirectories and in-flight temp files are skipped.
func (s *FileSystemSink) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading export directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies that the export directory is accessible.
func (s *FileSystemSink) ValidateSetup() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("export directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("export path is not a directory: %s", s.dir)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (s *FileSystemSink) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	// CreateTemp uses 0600; exported documents are meant to be read by other processes.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemSink implements haptic.Sink interface
var _ haptic.Sink = (*FileSystemSink)(nil)
