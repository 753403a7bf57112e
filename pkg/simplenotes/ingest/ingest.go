// Package ingest loads a local directory of markdown notes into the bucket
// and the markdown_files table.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// File is a local note prepared for upload
type File struct {
	Path        string
	Name        string
	DisplayName string
	Title       string
	FilePath    string
	FileURL     string
	Content     string
}

// Stage identifies where a per-file failure happened
type Stage string

const (
	StageUpload Stage = "upload"
	StageIndex  Stage = "index"
)

// FileError records a failure for one file; the run continues past it.
type FileError struct {
	DisplayName string
	Stage       Stage
	Err         error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.DisplayName, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Report summarizes an ingestion run
type Report struct {
	Files        []File
	Uploaded     int
	BlobsSkipped int
	Indexed      int
	RowsSkipped  int
	Errors       []*FileError
	DryRun       bool
}

// Options controls a run
type Options struct {
	// DryRun reads and reports without touching the backends.
	DryRun bool
}

// Ingestor uploads local notes
type Ingestor struct {
	repo          simplenotes.Repository
	store         simplenotes.BlobStore
	publicBaseURL string
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures an Ingestor
type Option func(*Ingestor)

// WithPublicBaseURL sets the prefix used to derive file_url
func WithPublicBaseURL(baseURL string) Option {
	return func(i *Ingestor) {
		i.publicBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the progress logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingestor) {
		i.logger = logger
	}
}

// WithClock overrides the time source for created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(i *Ingestor) {
		i.now = now
	}
}

// New creates an Ingestor
func New(repo simplenotes.Repository, store simplenotes.BlobStore, opts ...Option) *Ingestor {
	i := &Ingestor{
		repo:   repo,
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ReadMarkdownFiles reads every *.md file directly inside dir, sorted by
// file name. The storage key of each file is the slug of its file name.
func ReadMarkdownFiles(dir string) ([]File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes directory: %w", err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		base := filepath.Base(p)
		name := simplenotes.GenerateSlug(base)
		files = append(files, File{
			Path:        p,
			Name:        name,
			DisplayName: base,
			Title:       strings.ReplaceAll(base, ".md", ""),
			FilePath:    name,
			Content:     string(data),
		})
	}
	return files, nil
}

// Run ingests dir: blobs first, then index rows for the files whose blob is
// in place. Existing blobs and rows are left untouched.
func (i *Ingestor) Run(ctx context.Context, dir string, opts Options) (*Report, error) {
	files, err := ReadMarkdownFiles(dir)
	if err != nil {
		return nil, err
	}
	for idx := range files {
		files[idx].FileURL = simplenotes.PublicURL(i.publicBaseURL, files[idx].FilePath)
	}

	report := &Report{Files: files, DryRun: opts.DryRun}
	i.logger.InfoContext(ctx, "read markdown files", "dir", dir, "count", len(files))
	if opts.DryRun {
		for _, f := range files {
			i.logger.InfoContext(ctx, "would ingest", "file", f.DisplayName, "name", f.Name)
		}
		return report, nil
	}

	var stored []File
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		skipped, err := i.uploadBlob(ctx, f)
		if err != nil {
			report.Errors = append(report.Errors, &FileError{DisplayName: f.DisplayName, Stage: StageUpload, Err: err})
			i.logger.WarnContext(ctx, "upload failed, skipping file", "file", f.DisplayName, "err", err)
			continue
		}
		if skipped {
			report.BlobsSkipped++
			i.logger.InfoContext(ctx, "blob exists, skipping upload", "name", f.Name)
		} else {
			report.Uploaded++
			i.logger.InfoContext(ctx, "uploaded", "file", f.DisplayName, "name", f.Name)
		}
		stored = append(stored, f)
	}

	for _, f := range stored {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		skipped, err := i.insertRow(ctx, f)
		if err != nil {
			report.Errors = append(report.Errors, &FileError{DisplayName: f.DisplayName, Stage: StageIndex, Err: err})
			i.logger.WarnContext(ctx, "index insert failed", "file", f.DisplayName, "err", err)
			continue
		}
		if skipped {
			report.RowsSkipped++
		} else {
			report.Indexed++
		}
	}

	return report, nil
}

func (i *Ingestor) uploadBlob(ctx context.Context, f File) (bool, error) {
	if _, err := i.store.GetObjectMeta(ctx, f.FilePath); err == nil {
		return true, nil
	} else if !errors.Is(err, simplenotes.ErrBlobNotFound) {
		return false, err
	}

	err := i.store.UploadWithParams(ctx, strings.NewReader(f.Content), simplenotes.UploadParams{
		ObjectKey: f.FilePath,
		MimeType:  simplenotes.MarkdownContentType,
	})
	return false, err
}

func (i *Ingestor) insertRow(ctx context.Context, f File) (bool, error) {
	if _, err := i.repo.GetByName(ctx, f.Name); err == nil {
		return true, nil
	} else if !errors.Is(err, simplenotes.ErrRecordNotFound) {
		return false, err
	}

	now := i.now()
	rec := &simplenotes.FileRecord{
		ID:          uuid.New(),
		Name:        f.Name,
		DisplayName: f.DisplayName,
		Title:       f.Title,
		FilePath:    f.FilePath,
		FileURL:     f.FileURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := i.repo.InsertFile(ctx, rec, simplenotes.WriteOptions{})
	if errors.Is(err, simplenotes.ErrRecordExists) {
		return true, nil
	}
	return false, err
}
