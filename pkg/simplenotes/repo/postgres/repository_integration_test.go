//go:build integration

package postgres_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-notes/pkg/simplenotes"
	"github.com/tendant/simple-notes/pkg/simplenotes/repo/postgres"
)

// Requires NOTES_TEST_DATABASE_URL pointing at a disposable database.
func TestPostgresRepository_Integration(t *testing.T) {
	dbURL := os.Getenv("NOTES_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("NOTES_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	require.NoError(t, postgres.MigrateUp(dbURL, slog.Default()))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	repo := postgres.NewWithPool(pool, "public")
	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.ProbeSortOrder(ctx))

	name := "it_" + uuid.NewString() + ".md"
	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &simplenotes.FileRecord{
		ID: uuid.New(), Name: name, DisplayName: name, Title: "it",
		FilePath: name, FileURL: "http://localhost/" + name,
		SortOrder: -100, CreatedAt: now, UpdatedAt: now,
	}
	opts := simplenotes.WriteOptions{IncludeSortOrder: true}

	require.NoError(t, repo.InsertFile(ctx, rec, opts))
	assert.ErrorIs(t, repo.InsertFile(ctx, rec, opts), simplenotes.ErrRecordExists)

	got, err := repo.GetByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	rec.Title = "updated"
	require.NoError(t, repo.UpdateFile(ctx, rec, opts))

	files, err := repo.ListFiles(ctx, simplenotes.ListOptions{OrderBySortOrder: true})
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, name, files[0].Name)
	assert.Equal(t, "updated", files[0].Title)

	n, err := repo.DeleteByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
