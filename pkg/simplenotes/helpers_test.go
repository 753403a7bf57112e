package simplenotes_test

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
	"github.com/tendant/simple-notes/pkg/simplenotes"
	memorystorage "github.com/tendant/simple-notes/pkg/simplenotes/storage/memory"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

// mockRepository is a testify mock of simplenotes.Repository
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByName(ctx context.Context, name string) (*simplenotes.FileRecord, error) {
	args := m.Called(ctx, name)
	rec, _ := args.Get(0).(*simplenotes.FileRecord)
	return rec, args.Error(1)
}

func (m *mockRepository) InsertFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	return m.Called(ctx, record, opts).Error(0)
}

func (m *mockRepository) UpdateFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	return m.Called(ctx, record, opts).Error(0)
}

func (m *mockRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) ListNames(ctx context.Context, opts simplenotes.ListOptions) ([]string, error) {
	args := m.Called(ctx, opts)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockRepository) ListFiles(ctx context.Context, opts simplenotes.ListOptions) ([]*simplenotes.FileRecord, error) {
	args := m.Called(ctx, opts)
	files, _ := args.Get(0).([]*simplenotes.FileRecord)
	return files, args.Error(1)
}

func (m *mockRepository) ProbeSortOrder(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// failingBlobStore wraps the memory backend and injects errors
type failingBlobStore struct {
	*memorystorage.Backend
	uploadErr error
	deleteErr error
	// failDelete fails Delete for the listed keys only
	failDelete map[string]error
}

func (f *failingBlobStore) UploadWithParams(ctx context.Context, reader io.Reader, params simplenotes.UploadParams) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	return f.Backend.UploadWithParams(ctx, reader, params)
}

func (f *failingBlobStore) Delete(ctx context.Context, key string) error {
	if err, ok := f.failDelete[key]; ok {
		return err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Backend.Delete(ctx, key)
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) NoteSaved(ctx context.Context, result *simplenotes.SaveResult) error {
	r.events = append(r.events, "saved:"+result.Name)
	return nil
}

func (r *recordingSink) NoteDeleted(ctx context.Context, result *simplenotes.DeleteResult) error {
	r.events = append(r.events, "deleted:"+result.Name)
	return nil
}
