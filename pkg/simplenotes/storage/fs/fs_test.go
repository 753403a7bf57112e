package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-notes/pkg/simplenotes"
	fsstorage "github.com/tendant/simple-notes/pkg/simplenotes/storage/fs"
)

func TestFSBackend(t *testing.T) {
	baseDir := t.TempDir()
	backend, err := fsstorage.New(fsstorage.Config{BaseDir: baseDir})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("UploadDownload", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "notes/a.md", strings.NewReader("# A")))

		reader, err := backend.Download(ctx, "notes/a.md")
		require.NoError(t, err)
		defer reader.Close()
		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "# A", string(data))

		meta, err := backend.GetObjectMeta(ctx, "notes/a.md")
		require.NoError(t, err)
		assert.Equal(t, int64(3), meta.Size)
		assert.Equal(t, simplenotes.MarkdownContentType, meta.ContentType)
	})

	t.Run("DeleteCleansDirectories", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, "notes/a.md"))

		_, err := os.Stat(filepath.Join(baseDir, "notes"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(baseDir)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := backend.Download(ctx, "missing.md")
		assert.ErrorIs(t, err, simplenotes.ErrBlobNotFound)
		_, err = backend.GetObjectMeta(ctx, "missing.md")
		assert.ErrorIs(t, err, simplenotes.ErrBlobNotFound)
		assert.ErrorIs(t, backend.Delete(ctx, "missing.md"), simplenotes.ErrBlobNotFound)
	})

	t.Run("RejectsEscapingKeys", func(t *testing.T) {
		err := backend.Upload(ctx, "../outside.md", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid object key")
	})
}

func TestFSBackend_RequiresBaseDir(t *testing.T) {
	_, err := fsstorage.New(fsstorage.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base directory is required")
}
