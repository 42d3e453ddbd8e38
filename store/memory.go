package store

import (
	"context"
	"slices"
	"sync"
)

// Object is an image held by a MemoryUploader.
type Object struct {
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// MemoryUploader keeps uploads in memory. It is safe for concurrent use.
type MemoryUploader struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryUploader creates an empty in-memory uploader.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{
		objects: make(map[string]Object),
	}
}

func (m *MemoryUploader) Upload(_ context.Context, params UploadParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[params.Name] = Object{
		Data:        slices.Clone(params.Data),
		ContentType: params.ContentType,
		Metadata:    params.Metadata,
	}
	return nil
}

// Location returns a memory: URI for name.
func (m *MemoryUploader) Location(name string) string {
	return "memory:" + name
}

// Get returns the object stored under name.
func (m *MemoryUploader) Get(name string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[name]
	return obj, ok
}

// Names returns the stored names, sorted.
func (m *MemoryUploader) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.objects))
	for k := range m.objects {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of stored objects.
func (m *MemoryUploader) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
