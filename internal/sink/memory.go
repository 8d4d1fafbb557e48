package sink

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"haptic-go/internal/haptic"
)

// MemorySink is an in-memory implementation of the Sink interface.
// It is useful for testing and for dry runs. Safe for concurrent use.
type MemorySink struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemorySink creates a new empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{docs: make(map[string][]byte)}
}

// Put stores a document, replacing any previous document with the same name.
func (m *MemorySink) Put(name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[name] = data
	return nil
}

// Get writes the named document to w.
func (m *MemorySink) Get(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[name]
	if !ok {
		return fmt.Errorf("%w: document %s", haptic.ErrNotFound, name)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// List returns the stored document names, sorted.
func (m *MemorySink) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup always succeeds for in-memory sink.
func (m *MemorySink) ValidateSetup() error {
	return nil
}

// Compile-time check that MemorySink implements haptic.Sink interface
var _ haptic.Sink = (*MemorySink)(nil)
