package simplenotes

import (
	"context"
	"io"
)

// Repository is the metadata record accessor for the markdown_files table.
//
// Implementations report a missing table as ErrTableMissing, a missing
// sort_order column as ErrColumnMissing, an absent row as ErrRecordNotFound
// and a unique violation on name as ErrRecordExists.
type Repository interface {
	GetByName(ctx context.Context, name string) (*FileRecord, error)
	InsertFile(ctx context.Context, record *FileRecord, opts WriteOptions) error
	UpdateFile(ctx context.Context, record *FileRecord, opts WriteOptions) error
	// DeleteByName returns the number of rows removed.
	DeleteByName(ctx context.Context, name string) (int64, error)
	ListNames(ctx context.Context, opts ListOptions) ([]string, error)
	ListFiles(ctx context.Context, opts ListOptions) ([]*FileRecord, error)
	// ProbeSortOrder fails when the sort_order column cannot be used.
	ProbeSortOrder(ctx context.Context) error
	Ping(ctx context.Context) error
}

// BlobStore is the blob accessor for the notes bucket. Absent keys are
// reported as ErrBlobNotFound.
type BlobStore interface {
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
	Upload(ctx context.Context, objectKey string, reader io.Reader) error
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectKey string) error
}

// EventSink receives notifications after notes change
type EventSink interface {
	NoteSaved(ctx context.Context, result *SaveResult) error
	NoteDeleted(ctx context.Context, result *DeleteResult) error
}
