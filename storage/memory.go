package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Memory is an in-process Storage. It counts writes and deletes so callers
// can assert on side effects.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	blobs   map[string][]byte
	writes  int
	deletes int
}

// NewMemory returns an empty Memory storage.
func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, blobs: make(map[string][]byte)}
}

func (m *Memory) Exists(_ context.Context, name string) (bool, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[cleaned]
	return ok, nil
}

func (m *Memory) Open(_ context.Context, name string) (io.ReadCloser, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[cleaned]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) Save(_ context.Context, name string, r io.Reader) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[cleaned] = data
	m.writes++
	return nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[cleaned]; ok {
		delete(m.blobs, cleaned)
		m.deletes++
	}
	return nil
}

func (m *Memory) URL(name string) string {
	cleaned, err := CleanName(name)
	if err != nil {
		return ""
	}
	return joinURL(m.BaseURL, cleaned)
}

// Names returns the stored names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.blobs))
	for n := range m.blobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Writes returns the number of successful Save calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Deletes returns the number of Delete calls that removed a blob.
func (m *Memory) Deletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}
