package simplenotes

import "context"

// Service defines the notes operations exposed over HTTP and MCP
type Service interface {
	// SaveFile uploads the note body, replacing any existing blob, then
	// upserts its metadata row. Metadata failures degrade the result.
	SaveFile(ctx context.Context, req SaveFileRequest) (*SaveResult, error)
	// GetFileContent returns the note body stored under name.
	GetFileContent(ctx context.Context, name string) (string, error)
	// ListFileNames lists note names, falling back from ordered to unordered
	// metadata and then to the local notes directory.
	ListFileNames(ctx context.Context) (*ListResult, error)
	// ListFileIndex returns every metadata row with a derived file URL.
	ListFileIndex(ctx context.Context) (*IndexResult, error)
	// DeleteFile removes the metadata row and the blob for name.
	DeleteFile(ctx context.Context, name string) (*DeleteResult, error)
	// FileURL builds the public URL of a blob key.
	FileURL(filePath string) string
}
