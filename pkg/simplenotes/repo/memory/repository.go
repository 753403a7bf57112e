package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// Repository implements simplenotes.Repository using in-memory storage.
//
// It can simulate the schema drift the hosted table goes through: a table
// created before the sort_order column existed, or no table at all.
type Repository struct {
	mu           sync.RWMutex
	files        map[string]*simplenotes.FileRecord
	order        []string // insertion order, stands in for heap order
	noSortOrder  bool
	tableMissing bool
}

// Option configures the in-memory repository
type Option func(*Repository)

// WithoutSortOrder simulates a table lacking the sort_order column
func WithoutSortOrder() Option {
	return func(r *Repository) {
		r.noSortOrder = true
	}
}

// WithoutTable simulates a missing markdown_files table
func WithoutTable() Option {
	return func(r *Repository) {
		r.tableMissing = true
	}
}

// New creates a new in-memory repository
func New(opts ...Option) *Repository {
	r := &Repository{
		files: make(map[string]*simplenotes.FileRecord),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSortOrderAvailable adds or drops the simulated sort_order column
func (r *Repository) SetSortOrderAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noSortOrder = !available
}

// SetTableMissing drops or restores the simulated table
func (r *Repository) SetTableMissing(missing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tableMissing = missing
}

func (r *Repository) check(opts simplenotes.WriteOptions) error {
	if r.tableMissing {
		return simplenotes.ErrTableMissing
	}
	if opts.IncludeSortOrder && r.noSortOrder {
		return simplenotes.ErrColumnMissing
	}
	return nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*simplenotes.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check(simplenotes.WriteOptions{}); err != nil {
		return nil, err
	}
	record, exists := r.files[name]
	if !exists {
		return nil, simplenotes.ErrRecordNotFound
	}
	// Return a copy to prevent external modifications
	recordCopy := *record
	return &recordCopy, nil
}

func (r *Repository) InsertFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(opts); err != nil {
		return err
	}
	if _, exists := r.files[record.Name]; exists {
		return simplenotes.ErrRecordExists
	}

	recordCopy := *record
	if !opts.IncludeSortOrder {
		recordCopy.SortOrder = 0
	}
	r.files[record.Name] = &recordCopy
	r.order = append(r.order, record.Name)
	return nil
}

func (r *Repository) UpdateFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(opts); err != nil {
		return err
	}
	existing, exists := r.files[record.Name]
	if !exists {
		return simplenotes.ErrRecordNotFound
	}

	recordCopy := *record
	recordCopy.ID = existing.ID
	recordCopy.CreatedAt = existing.CreatedAt
	if !opts.IncludeSortOrder {
		recordCopy.SortOrder = existing.SortOrder
	}
	r.files[record.Name] = &recordCopy
	return nil
}

func (r *Repository) DeleteByName(ctx context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(simplenotes.WriteOptions{}); err != nil {
		return 0, err
	}
	if _, exists := r.files[name]; !exists {
		return 0, nil
	}

	delete(r.files, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *Repository) ListNames(ctx context.Context, opts simplenotes.ListOptions) ([]string, error) {
	records, err := r.ListFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names, nil
}

func (r *Repository) ListFiles(ctx context.Context, opts simplenotes.ListOptions) ([]*simplenotes.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check(simplenotes.WriteOptions{IncludeSortOrder: opts.OrderBySortOrder}); err != nil {
		return nil, err
	}

	records := make([]*simplenotes.FileRecord, 0, len(r.order))
	for _, name := range r.order {
		recordCopy := *r.files[name]
		if r.noSortOrder {
			recordCopy.SortOrder = 0
		}
		records = append(records, &recordCopy)
	}

	if opts.OrderBySortOrder {
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].SortOrder != records[j].SortOrder {
				return records[i].SortOrder < records[j].SortOrder
			}
			return records[i].Name < records[j].Name
		})
	}
	return records, nil
}

func (r *Repository) ProbeSortOrder(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.check(simplenotes.WriteOptions{IncludeSortOrder: true})
}

func (r *Repository) Ping(ctx context.Context) error {
	return nil
}
