package config

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "notes", cfg.Bucket())
	assert.Equal(t, "public", cfg.DBSchema)
	assert.Equal(t, "assets/notes", cfg.LocalNotesDir)
	assert.Empty(t, cfg.AdminPassword)
	assert.Equal(t, "/storage/v1/object/public/notes", cfg.ResolvePublicBaseURL())
}

func TestLoad_Options(t *testing.T) {
	cfg, err := Load(
		WithPort("9000"),
		WithDatabase("postgres", "postgres://localhost/notes"),
		WithDatabaseSchema("notes"),
		WithS3Storage(S3Config{Bucket: "md"}),
		WithPublicBaseURL("https://cdn.example.com/md/"),
		WithAdminPassword("pw"),
	)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, "https://cdn.example.com/md", cfg.ResolvePublicBaseURL())
}

func TestLoad_OptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"EmptyPort", WithPort("")},
		{"BadDatabase", WithDatabase("sqlite", "")},
		{"PostgresWithoutURL", WithDatabase("postgres", "")},
		{"EmptyFSDir", WithFilesystemStorage("")},
		{"EmptyBucket", WithS3Storage(S3Config{})},
		{"NegativeBody", WithRequestLimits(-1, 0)},
		{"BadLogFormat", WithLogging("", "xml")},
		{"BadLogLevel", WithLogging("loud", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestBuildBackendsAndService(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(WithFilesystemStorage(t.TempDir()), WithSupabaseURL("https://abc.supabase.co"))
	require.NoError(t, err)

	backends, err := cfg.BuildBackends(ctx)
	require.NoError(t, err)
	defer backends.Close()
	assert.Nil(t, backends.Pool)
	assert.Nil(t, backends.S3)

	svc, err := cfg.BuildService(backends, nil)
	require.NoError(t, err)

	res, err := svc.SaveFile(ctx, simplenotes.SaveFileRequest{DisplayName: "hello", Title: "Hello", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/notes/file_5d41402abc.md", res.FileURL)
}

func TestBuildBackends_S3FromSupabase(t *testing.T) {
	cfg, err := Load(
		WithS3Storage(S3Config{Bucket: "notes", AccessKeyID: "k", SecretAccessKey: "s", UsePathStyle: true}),
		WithSupabaseURL("https://abc.supabase.co/"),
	)
	require.NoError(t, err)

	backends, err := cfg.BuildBackends(context.Background())
	require.NoError(t, err)
	require.NotNil(t, backends.S3)
	assert.Equal(t, "notes", backends.S3.Bucket())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := Load(WithLogging("warn", "json"))
	require.NoError(t, err)

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, `"msg":"shown"`))
	assert.True(t, strings.Contains(out, `"k":"v"`))
}
