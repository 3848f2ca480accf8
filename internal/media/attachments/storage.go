// Package attachments stores uploaded attachment files on disk.
package attachments

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrTooLarge is returned by Save when the content exceeds the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// Storage manages attachment files in a single directory.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates the directory if needed and returns a Storage rooted there.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Dir returns the directory files are stored in.
func (s *Storage) Dir() string {
	return s.basePath
}

// Save writes r to a new file named <uuid><ext> and returns that name.
// Content longer than maxBytes is rejected with ErrTooLarge and nothing is kept.
// The file appears under its final name only once fully written.
func (s *Storage) Save(ext string, r io.Reader, maxBytes int64) (string, error) {
	name := uuid.NewString() + strings.ToLower(ext)

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	n, err := io.Copy(tmp, io.LimitReader(r, maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if n > maxBytes {
		return "", ErrTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.pathLocked(name)); err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}
	return name, nil
}

// Exists reports whether a stored file exists.
func (s *Storage) Exists(name string) bool {
	if !validName(name) {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.pathLocked(name))
	return err == nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *Storage) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("invalid attachment name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathLocked(name)); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete attachment file: %w", err)
	}
	return nil
}

// Path returns the full filesystem path for a stored name.
func (s *Storage) Path(name string) string {
	return s.pathLocked(name)
}

func (s *Storage) pathLocked(name string) string {
	return filepath.Join(s.basePath, filepath.Base(name))
}

// validName rejects empty names and anything that is not a bare file name.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}
