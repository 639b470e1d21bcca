package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// Backend is an in-memory implementation of the classdesk.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	updated map[string]time.Time
}

// New creates a new in-memory storage backend
func New() classdesk.BlobStore {
	return &Backend{
		blobs:   make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

// Put stores a blob in memory
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	b.updated[key] = time.Now().UTC()
	return nil
}

// Get returns the blob content
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, classdesk.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a blob. Deleting an unknown key fails.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.blobs[key]; !exists {
		return classdesk.ErrBlobNotFound
	}

	delete(b.blobs, key)
	delete(b.updated, key)
	return nil
}

// Meta retrieves metadata for a stored blob
func (b *Backend) Meta(ctx context.Context, key string) (*classdesk.BlobMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, classdesk.ErrBlobNotFound
	}

	return &classdesk.BlobMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: "application/octet-stream",
		UpdatedAt:   b.updated[key],
	}, nil
}
