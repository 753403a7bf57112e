package simplenotes

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord is one row of the markdown_files metadata table.
type FileRecord struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Title       string    `json:"title"`
	FilePath    string    `json:"file_path"`
	FileURL     string    `json:"file_url"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ObjectMeta describes a blob in the bucket
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading a blob
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// WriteOptions controls which optional columns a metadata write touches.
type WriteOptions struct {
	IncludeSortOrder bool
}

// ListOptions controls metadata listing.
type ListOptions struct {
	// OrderBySortOrder orders by the sort_order column, then name. When false
	// the sort_order column is neither read nor used and rows come back in
	// storage order.
	OrderBySortOrder bool
}

// SaveFileRequest is the input of Service.SaveFile
type SaveFileRequest struct {
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Name        string `json:"name,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// SaveResult is the outcome of a save. Record is nil when the metadata write
// was skipped or failed.
type SaveResult struct {
	Name    string
	FileURL string
	Record  *FileRecord
	Status  Status
}

// ListSource tells where a name listing came from
type ListSource string

const (
	ListSourceTable          ListSource = "table"
	ListSourceTableUnordered ListSource = "table_unordered"
	ListSourceLocal          ListSource = "local"
	ListSourceNone           ListSource = "none"
)

// ListResult is the outcome of Service.ListFileNames
type ListResult struct {
	Names  []string
	Source ListSource
	Status Status
}

// IndexResult is the outcome of Service.ListFileIndex
type IndexResult struct {
	Files  []*FileRecord
	Status Status
}

// DeleteResult is the outcome of Service.DeleteFile
type DeleteResult struct {
	Name        string
	FilePath    string
	RowDeleted  bool
	BlobDeleted bool
	Status      Status
}
