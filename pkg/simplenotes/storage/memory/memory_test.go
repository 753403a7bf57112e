package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-notes/pkg/simplenotes"
	memorystorage "github.com/tendant/simple-notes/pkg/simplenotes/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := "file_5d41402abc.md"
	testData := "# Hello\n\nThis is test data."

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader(testData))
		assert.NoError(t, err)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, testKey, meta.Key)
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.Equal(t, "application/octet-stream", meta.ContentType)
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("UploadWithParams", func(t *testing.T) {
		err := backend.UploadWithParams(ctx, strings.NewReader(testData), simplenotes.UploadParams{
			ObjectKey: "typed.md",
			MimeType:  simplenotes.MarkdownContentType,
		})
		require.NoError(t, err)

		meta, err := backend.GetObjectMeta(ctx, "typed.md")
		require.NoError(t, err)
		assert.Equal(t, simplenotes.MarkdownContentType, meta.ContentType)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, testKey))

		_, err := backend.GetObjectMeta(ctx, testKey)
		assert.ErrorIs(t, err, simplenotes.ErrBlobNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := backend.Download(ctx, "missing.md")
		assert.ErrorIs(t, err, simplenotes.ErrBlobNotFound)

		err = backend.Delete(ctx, "missing.md")
		assert.ErrorIs(t, err, simplenotes.ErrBlobNotFound)
	})
}
