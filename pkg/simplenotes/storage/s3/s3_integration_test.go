//go:build integration

package s3

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// Runs against MinIO or Supabase storage configured through
// NOTES_TEST_S3_ENDPOINT, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
func TestS3Backend_Integration(t *testing.T) {
	endpoint := os.Getenv("NOTES_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("NOTES_TEST_S3_ENDPOINT not set")
	}

	backend, err := New(Config{
		Bucket:                 "notes-test",
		Region:                 "us-east-1",
		AccessKeyID:            os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey:        os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	key := "it_" + uuid.NewString() + ".md"

	err = backend.UploadWithParams(ctx, strings.NewReader("# it"), simplenotes.UploadParams{
		ObjectKey: key,
		MimeType:  simplenotes.MarkdownContentType,
	})
	require.NoError(t, err)

	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(4), meta.Size)

	reader, err := backend.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	reader.Close()
	require.NoError(t, err)
	assert.Equal(t, "# it", string(data))

	require.NoError(t, backend.Delete(ctx, key))
	assert.ErrorIs(t, backend.Delete(ctx, key), simplenotes.ErrBlobNotFound)
}
