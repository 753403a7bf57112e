package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// Check names
const (
	CheckDatabase  = "database"
	CheckTable     = "table"
	CheckSortOrder = "sort_order"
	CheckUpload    = "bucket_upload"
	CheckDownload  = "bucket_download"
	CheckDelete    = "bucket_delete"
)

const probePrefix = "_permission_check/"

// CheckResult is the outcome of a single check
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Report collects check results in execution order
type Report struct {
	Results []CheckResult `json:"results"`
}

// Passed reports whether every check passed
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failed returns the failed checks
func (r *Report) Failed() []CheckResult {
	var failed []CheckResult
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) add(name string, err error, okMessage string) {
	res := CheckResult{Name: name, Passed: err == nil, Message: okMessage}
	if err != nil {
		res.Message = err.Error()
	}
	r.Results = append(r.Results, res)
}

// Checker verifies that the configured credentials can reach and use the
// metadata table and the bucket.
type Checker struct {
	repo   simplenotes.Repository
	store  simplenotes.BlobStore
	logger *slog.Logger
}

// NewChecker creates a Checker. A nil logger falls back to slog.Default.
func NewChecker(repo simplenotes.Repository, store simplenotes.BlobStore, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{repo: repo, store: store, logger: logger}
}

// Run executes all checks. Failures are recorded in the report; the error
// return is reserved for a cancelled context.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	report.add(CheckDatabase, c.repo.Ping(ctx), "connected")

	_, err := c.repo.ListNames(ctx, simplenotes.ListOptions{})
	if errors.Is(err, simplenotes.ErrTableMissing) {
		err = fmt.Errorf("markdown_files table does not exist, run migrations: %w", err)
	}
	report.add(CheckTable, err, "markdown_files is readable")

	report.add(CheckSortOrder, c.repo.ProbeSortOrder(ctx), "sort_order column available")

	c.bucketRoundTrip(ctx, report)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	for _, res := range report.Results {
		level := slog.LevelInfo
		if !res.Passed {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "check", "name", res.Name, "passed", res.Passed, "message", res.Message)
	}
	return report, nil
}

func (c *Checker) bucketRoundTrip(ctx context.Context, report *Report) {
	key := probePrefix + uuid.NewString() + ".md"
	payload := []byte("# permission check\n")

	err := c.store.UploadWithParams(ctx, bytes.NewReader(payload), simplenotes.UploadParams{
		ObjectKey: key,
		MimeType:  simplenotes.MarkdownContentType,
	})
	report.add(CheckUpload, err, "uploaded "+key)
	if err != nil {
		return
	}

	report.add(CheckDownload, c.download(ctx, key, payload), "downloaded "+key)
	report.add(CheckDelete, c.store.Delete(ctx, key), "deleted "+key)
}

func (c *Checker) download(ctx context.Context, key string, want []byte) error {
	rc, err := c.store.Download(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read probe object: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("probe object content mismatch: got %d bytes, want %d", len(got), len(want))
	}
	return nil
}
