// Package staging copies source documents into local working files so
// the pipeline can read arbitrary page ranges without holding the whole
// document in memory. Each Manager owns the files it staged and removes
// them on Cleanup.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Manager stages documents into dir and tracks them for cleanup.
// A Manager belongs to exactly one pipeline run.
type Manager struct {
	dir string

	mu     sync.Mutex
	staged []string
}

// NewManager returns a Manager writing into dir. An empty dir falls
// back to the OS temp directory.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{dir: dir}
}

// Stage copies src into a new local file, preserving ext (including the
// leading dot) so format detection keeps working on the staged copy.
// On any failure the partial file is removed and nothing is tracked.
func (m *Manager) Stage(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(m.dir, "stgkb-"+uuid.NewString()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("copy to staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}

	m.mu.Lock()
	m.staged = append(m.staged, path)
	m.mu.Unlock()
	return path, nil
}

// Cleanup deletes every file this Manager staged. It is idempotent and
// safe to call on every exit path; already-removed files are not
// errors.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, path := range m.staged {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	m.staged = m.staged[:0]
	return errors.Join(errs...)
}
