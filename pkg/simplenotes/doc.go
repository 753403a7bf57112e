// Package simplenotes provides a small service for managing Markdown notes
// kept in two places: a public blob bucket holding the note bodies and a
// metadata table (markdown_files) indexing them by name.
//
// The Service orchestrates saving, reading, listing and deleting notes over a
// pluggable Repository and BlobStore. Implementations of repositories
// (memory, Postgres) and blob stores (memory, filesystem, S3) are provided
// under subpackages.
//
// Partial Failure
//
// The blob bucket is authoritative for note content. The metadata table is a
// best-effort index: when a metadata write or an ordered listing fails, the
// call still succeeds and the result carries a Status describing how it was
// degraded. Only failures that leave the caller without the requested data
// (a failed upload, a missing note) are returned as errors.
package simplenotes
