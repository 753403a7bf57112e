// Package admin provides operator tooling for a notes deployment: permission
// and connectivity checks against the configured backends and table
// statistics. These operations are meant for CLIs and should not be exposed
// on the public API without authentication.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// Statistics summarizes the markdown_files table
type Statistics struct {
	TotalCount         int64      `json:"total_count"`
	SortOrderAvailable bool       `json:"sort_order_available"`
	OldestUpdate       *time.Time `json:"oldest_update,omitempty"`
	NewestUpdate       *time.Time `json:"newest_update,omitempty"`
	ComputedAt         time.Time  `json:"computed_at"`
}

// Service defines administrative read operations over the metadata table
type Service interface {
	Stats(ctx context.Context) (*Statistics, error)
}

// New creates a new admin Service backed by repo
func New(repo simplenotes.Repository) Service {
	return &adminService{repo: repo, now: time.Now}
}

type adminService struct {
	repo simplenotes.Repository
	now  func() time.Time
}

var _ Service = (*adminService)(nil)

// Stats counts rows and finds the update time range. It does not rely on
// sort_order, so it works on tables that predate that column.
func (s *adminService) Stats(ctx context.Context) (*Statistics, error) {
	records, err := s.repo.ListFiles(ctx, simplenotes.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	stats := &Statistics{
		TotalCount:         int64(len(records)),
		SortOrderAvailable: s.repo.ProbeSortOrder(ctx) == nil,
		ComputedAt:         s.now(),
	}

	for _, rec := range records {
		if rec.UpdatedAt.IsZero() {
			continue
		}
		updated := rec.UpdatedAt
		if stats.OldestUpdate == nil || updated.Before(*stats.OldestUpdate) {
			stats.OldestUpdate = &updated
		}
		if stats.NewestUpdate == nil || updated.After(*stats.NewestUpdate) {
			stats.NewestUpdate = &updated
		}
	}

	return stats, nil
}
