package simplenotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MarkdownContentType is the content type of uploaded note bodies
const MarkdownContentType = "text/markdown; charset=utf-8"

// service implements the Service interface
type service struct {
	repository    Repository
	blobStore     BlobStore
	eventSink     EventSink
	logger        *slog.Logger
	publicBaseURL string
	localNotesDir string
	now           func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store holding note bodies
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for degraded paths
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithPublicBaseURL sets the prefix of public blob URLs, e.g.
// https://xyz.supabase.co/storage/v1/object/public/notes
func WithPublicBaseURL(baseURL string) Option {
	return func(s *service) {
		s.publicBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLocalNotesDir sets the directory listed when the metadata table is
// unreachable.
func WithLocalNotesDir(dir string) Option {
	return func(s *service) {
		s.localNotesDir = dir
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		eventSink: NewNoopEventSink(),
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) FileURL(filePath string) string {
	return PublicURL(s.publicBaseURL, filePath)
}

// Save/update

func (s *service) SaveFile(ctx context.Context, req SaveFileRequest) (*SaveResult, error) {
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display_name is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.Content == "" {
		return nil, ErrContentRequired
	}

	name := req.Name
	if name == "" {
		name = GenerateSlug(req.DisplayName)
	}
	filePath := name

	if err := s.replaceBlob(ctx, filePath, req.Content); err != nil {
		return nil, &StorageError{Key: filePath, Op: "upload", Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)}
	}

	result := &SaveResult{
		Name:    name,
		FileURL: s.FileURL(filePath),
	}

	opts := WriteOptions{IncludeSortOrder: true}
	if err := s.repository.ProbeSortOrder(ctx); err != nil {
		opts.IncludeSortOrder = false
		result.Status.degrade(ReasonSortOrderUnavailable, err)
		s.logger.WarnContext(ctx, "sort_order column unavailable, saving without it", "name", name, "error", err)
	}

	record, err := s.upsertRecord(ctx, req, name, result.FileURL, opts)
	if err != nil {
		result.Status.degrade(ReasonMetadataWriteFailed, err)
		s.logger.ErrorContext(ctx, "Failed to write metadata, blob saved", "name", name, "error", err)
	} else {
		result.Record = record
	}

	if err := s.eventSink.NoteSaved(ctx, result); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "note_saved", "error", err)
	}

	return result, nil
}

// replaceBlob overwrites key by deleting any existing blob before uploading.
func (s *service) replaceBlob(ctx context.Context, key, content string) error {
	if _, err := s.blobStore.GetObjectMeta(ctx, key); err == nil {
		if err := s.blobStore.Delete(ctx, key); err != nil && !errors.Is(err, ErrBlobNotFound) {
			return fmt.Errorf("failed to remove existing blob: %w", err)
		}
	} else if !errors.Is(err, ErrBlobNotFound) {
		s.logger.WarnContext(ctx, "Failed to check existing blob, uploading anyway", "key", key, "error", err)
	}

	return s.blobStore.UploadWithParams(ctx, strings.NewReader(content), UploadParams{
		ObjectKey: key,
		MimeType:  MarkdownContentType,
	})
}

func (s *service) upsertRecord(ctx context.Context, req SaveFileRequest, name, fileURL string, opts WriteOptions) (*FileRecord, error) {
	now := s.now()

	existing, err := s.repository.GetByName(ctx, name)
	switch {
	case err == nil:
		return s.updateRecord(ctx, existing, req, fileURL, now, opts)
	case !errors.Is(err, ErrRecordNotFound):
		return nil, &RecordError{Name: name, Op: "lookup", Err: err}
	}

	record := &FileRecord{
		ID:          uuid.New(),
		Name:        name,
		DisplayName: req.DisplayName,
		Title:       req.Title,
		FilePath:    name,
		FileURL:     fileURL,
		SortOrder:   req.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.repository.InsertFile(ctx, record, opts)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrRecordExists) {
		return nil, &RecordError{Name: name, Op: "insert", Err: err}
	}

	// Lost an insert race with a concurrent save; update the winner's row.
	existing, err = s.repository.GetByName(ctx, name)
	if err != nil {
		return nil, &RecordError{Name: name, Op: "lookup", Err: err}
	}
	return s.updateRecord(ctx, existing, req, fileURL, now, opts)
}

func (s *service) updateRecord(ctx context.Context, existing *FileRecord, req SaveFileRequest, fileURL string, now time.Time, opts WriteOptions) (*FileRecord, error) {
	record := *existing
	record.DisplayName = req.DisplayName
	record.Title = req.Title
	record.FilePath = record.Name
	record.FileURL = fileURL
	record.UpdatedAt = now
	if opts.IncludeSortOrder {
		record.SortOrder = req.SortOrder
	}

	if err := s.repository.UpdateFile(ctx, &record, opts); err != nil {
		return nil, &RecordError{Name: record.Name, Op: "update", Err: err}
	}
	return &record, nil
}

// Read

func (s *service) GetFileContent(ctx context.Context, name string) (string, error) {
	content, err := s.readBlob(ctx, name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrBlobNotFound) {
		return "", &StorageError{Key: name, Op: "download", Err: err}
	}

	// The row may point at a different blob key.
	record, rerr := s.repository.GetByName(ctx, name)
	if rerr == nil && record.FilePath != "" && record.FilePath != name {
		content, err = s.readBlob(ctx, record.FilePath)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrBlobNotFound) {
			return "", &StorageError{Key: record.FilePath, Op: "download", Err: err}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (s *service) readBlob(ctx context.Context, key string) (string, error) {
	reader, err := s.blobStore.Download(ctx, key)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read blob: %w", err)
	}
	return string(data), nil
}

// Listing

func (s *service) ListFileNames(ctx context.Context) (*ListResult, error) {
	result := &ListResult{}

	names, err := s.repository.ListNames(ctx, ListOptions{OrderBySortOrder: true})
	if err == nil {
		result.Names = names
		result.Source = ListSourceTable
		return result, nil
	}
	result.Status.degrade(ReasonOrderedQueryFailed, err)
	s.logger.WarnContext(ctx, "Ordered listing failed, retrying unordered", "error", err)

	names, err = s.repository.ListNames(ctx, ListOptions{})
	if err == nil {
		sort.Strings(names)
		result.Names = names
		result.Source = ListSourceTableUnordered
		return result, nil
	}
	result.Status.degrade(ReasonLocalFallback, err)
	s.logger.WarnContext(ctx, "Metadata listing failed, listing local notes", "dir", s.localNotesDir, "error", err)

	names, err = s.listLocalNotes()
	if err == nil {
		result.Names = names
		result.Source = ListSourceLocal
		return result, nil
	}
	result.Status.degrade(ReasonLocalFallbackFailed, err)
	s.logger.ErrorContext(ctx, "Local notes listing failed, returning empty list", "dir", s.localNotesDir, "error", err)

	result.Names = []string{}
	result.Source = ListSourceNone
	return result, nil
}

func (s *service) listLocalNotes() ([]string, error) {
	if s.localNotesDir == "" {
		return nil, errors.New("local notes directory not configured")
	}
	if _, err := os.Stat(s.localNotesDir); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.localNotesDir, "*"+markdownExt))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

func (s *service) ListFileIndex(ctx context.Context) (*IndexResult, error) {
	result := &IndexResult{}

	records, err := s.repository.ListFiles(ctx, ListOptions{OrderBySortOrder: true})
	if err != nil {
		result.Status.degrade(ReasonOrderedQueryFailed, err)
		s.logger.WarnContext(ctx, "Ordered index query failed, retrying without sort_order", "error", err)

		records, err = s.repository.ListFiles(ctx, ListOptions{})
		if err != nil {
			return nil, &RecordError{Name: "*", Op: "list", Err: err}
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	}

	for _, r := range records {
		if r.FilePath == "" {
			r.FilePath = r.Name
		}
		if r.DisplayName == "" {
			r.DisplayName = r.Name
		}
		if r.Title == "" {
			r.Title = TrimMarkdownExt(r.Name)
		}
		r.FileURL = s.FileURL(r.FilePath)
	}
	if records == nil {
		records = []*FileRecord{}
	}
	result.Files = records
	return result, nil
}

// Delete

func (s *service) DeleteFile(ctx context.Context, name string) (*DeleteResult, error) {
	result := &DeleteResult{Name: name, FilePath: name}

	tableMissing := false
	record, err := s.repository.GetByName(ctx, name)
	switch {
	case err == nil:
		if record.FilePath != "" {
			result.FilePath = record.FilePath
		}
	case errors.Is(err, ErrTableMissing):
		tableMissing = true
	case !errors.Is(err, ErrRecordNotFound):
		return nil, &RecordError{Name: name, Op: "lookup", Err: err}
	}

	if !tableMissing {
		n, err := s.repository.DeleteByName(ctx, name)
		switch {
		case errors.Is(err, ErrTableMissing):
			tableMissing = true
		case err != nil:
			return nil, &RecordError{Name: name, Op: "delete", Err: err}
		default:
			result.RowDeleted = n > 0
		}
	}

	if tableMissing {
		return s.deleteBlobOnly(ctx, result)
	}

	deleted, blobErr := s.deleteBlob(ctx, result.FilePath, name)
	result.BlobDeleted = deleted

	switch {
	case !result.RowDeleted && !result.BlobDeleted:
		if blobErr == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, &StorageError{Key: result.FilePath, Op: "delete", Err: blobErr}
	case blobErr != nil:
		result.Status.degrade(ReasonBlobDeleteFailed, blobErr)
		s.logger.ErrorContext(ctx, "Blob removal failed", "name", name, "file_path", result.FilePath, "error", blobErr)
	}

	s.fireDeleted(ctx, result)
	return result, nil
}

// deleteBlob removes the blob at filePath, falling back to name when they
// differ. It reports whether any blob was removed and the first failure
// other than ErrBlobNotFound; absent blobs are not failures.
func (s *service) deleteBlob(ctx context.Context, filePath, name string) (bool, error) {
	err := s.blobStore.Delete(ctx, filePath)
	if err == nil {
		return true, nil
	}
	var failure error
	if !errors.Is(err, ErrBlobNotFound) {
		failure = err
	}
	if filePath == name {
		return false, failure
	}

	s.logger.WarnContext(ctx, "Failed to delete blob at file_path, retrying at name",
		"file_path", filePath, "name", name, "error", err)
	retryErr := s.blobStore.Delete(ctx, name)
	if failure == nil && retryErr != nil && !errors.Is(retryErr, ErrBlobNotFound) {
		failure = retryErr
	}
	return retryErr == nil, failure
}

// deleteBlobOnly handles deletion when the metadata table does not exist.
func (s *service) deleteBlobOnly(ctx context.Context, result *DeleteResult) (*DeleteResult, error) {
	result.Status.degrade(ReasonTableMissing, ErrTableMissing)
	s.logger.WarnContext(ctx, "Metadata table missing, deleting blob only", "name", result.Name)

	result.FilePath = result.Name
	if err := s.blobStore.Delete(ctx, result.Name); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, result.Name)
		}
		return nil, &StorageError{Key: result.Name, Op: "delete", Err: fmt.Errorf("table missing and cannot delete: %w", err)}
	}
	result.BlobDeleted = true

	s.fireDeleted(ctx, result)
	return result, nil
}

func (s *service) fireDeleted(ctx context.Context, result *DeleteResult) {
	if err := s.eventSink.NoteDeleted(ctx, result); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "note_deleted", "error", err)
	}
}
