package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// Backend is a filesystem implementation of the classdesk.BlobStore interface
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing blobs
}

// New creates a new filesystem storage backend
func New(config Config) (classdesk.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// blobPath shards blobs into two-character prefix directories to keep
// directory listings small.
func (b *Backend) blobPath(key string) string {
	if len(key) > 2 {
		return filepath.Join(b.baseDir, key[:2], key)
	}
	return filepath.Join(b.baseDir, key)
}

// Put writes a blob to the filesystem
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader) error {
	filePath := b.blobPath(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get opens a blob from the filesystem
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(b.blobPath(key))
	if os.IsNotExist(err) {
		return nil, classdesk.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a blob from the filesystem. Deleting an unknown key fails.
func (b *Backend) Delete(ctx context.Context, key string) error {
	filePath := b.blobPath(key)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return classdesk.ErrBlobNotFound
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// Meta retrieves metadata for a stored blob
func (b *Backend) Meta(ctx context.Context, key string) (*classdesk.BlobMeta, error) {
	filePath := b.blobPath(key)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, classdesk.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &classdesk.BlobMeta{
		Key:         key,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

// cleanupEmptyDirectories removes empty shard directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
