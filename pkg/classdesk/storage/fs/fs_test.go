package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

func newTestBackend(t *testing.T) classdesk.BlobStore {
	t.Helper()
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return backend
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPutGetRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader("hello world")))

	reader, err := backend.Get(ctx, "abcdef")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestGetMissingKey(t *testing.T) {
	backend := newTestBackend(t)

	_, err := backend.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, classdesk.ErrBlobNotFound)
}

func TestPutOverwrites(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader("first")))
	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader("second")))

	reader, err := backend.Get(ctx, "abcdef")
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader("data")))
	require.NoError(t, backend.Delete(ctx, "abcdef"))

	assert.ErrorIs(t, backend.Delete(ctx, "abcdef"), classdesk.ErrBlobNotFound)
	_, err := backend.Get(ctx, "abcdef")
	assert.ErrorIs(t, err, classdesk.ErrBlobNotFound)
}

func TestDeleteCleansShardDirectories(t *testing.T) {
	dir := t.TempDir()
	backend, err := New(Config{BaseDir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader("data")))
	require.NoError(t, backend.Delete(ctx, "abcdef"))

	_, err = os.Stat(filepath.Join(dir, "ab"))
	assert.True(t, os.IsNotExist(err), "empty shard directory should be removed")
}

func TestMeta(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	content := "some plain text content"
	require.NoError(t, backend.Put(ctx, "abcdef", strings.NewReader(content)))

	meta, err := backend.Meta(ctx, "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "abcdef", meta.Key)
	assert.Equal(t, int64(len(content)), meta.Size)
	assert.Contains(t, meta.ContentType, "text/plain")

	_, err = backend.Meta(ctx, "missing")
	assert.ErrorIs(t, err, classdesk.ErrBlobNotFound)
}
