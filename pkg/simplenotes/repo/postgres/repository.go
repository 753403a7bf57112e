package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// TableName is the metadata table managed by the migrations
const TableName = "markdown_files"

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplenotes.Repository using PostgreSQL.
//
// Queries only name the sort_order column when the caller asks for it, so
// the repository keeps working against tables created before the column
// was added.
type Repository struct {
	db    DBTX
	table string
}

// New creates a new PostgreSQL repository on the markdown_files table of
// schema, or of the search_path when schema is empty.
func New(db DBTX, schema string) *Repository {
	ident := pgx.Identifier{TableName}
	if schema != "" {
		ident = pgx.Identifier{schema, TableName}
	}
	return &Repository{db: db, table: ident.Sanitize()}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool, schema string) *Repository {
	return New(pool, schema)
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return simplenotes.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", simplenotes.ErrRecordExists, pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("%w: %s", simplenotes.ErrTableMissing, pgErr.Message)
		case "42703": // undefined_column
			return fmt.Errorf("%w: %s", simplenotes.ErrColumnMissing, pgErr.Message)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const baseColumns = `id, name, COALESCE(display_name, ''), COALESCE(title, ''),
	COALESCE(file_path, ''), COALESCE(file_url, ''), created_at, updated_at`

func scanRecord(row pgx.Row, withSortOrder bool) (*simplenotes.FileRecord, error) {
	var rec simplenotes.FileRecord
	var createdAt, updatedAt *time.Time
	dest := []any{
		&rec.ID, &rec.Name, &rec.DisplayName, &rec.Title,
		&rec.FilePath, &rec.FileURL, &createdAt, &updatedAt,
	}
	var sortOrder *int32
	if withSortOrder {
		dest = append(dest, &sortOrder)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if createdAt != nil {
		rec.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		rec.UpdatedAt = *updatedAt
	}
	if sortOrder != nil {
		rec.SortOrder = int(*sortOrder)
	}
	return &rec, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*simplenotes.FileRecord, error) {
	query := `SELECT ` + baseColumns + ` FROM ` + r.table + ` WHERE name = $1`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, name), false)
	if err != nil {
		return nil, r.handlePostgresError("get file", err)
	}
	return rec, nil
}

func (r *Repository) InsertFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	args := []any{
		id, record.Name, record.DisplayName, record.Title,
		record.FilePath, record.FileURL, record.CreatedAt, record.UpdatedAt,
	}

	query := `INSERT INTO ` + r.table + ` (
			id, name, display_name, title, file_path, file_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if opts.IncludeSortOrder {
		query = `INSERT INTO ` + r.table + ` (
			id, name, display_name, title, file_path, file_url, created_at, updated_at, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		args = append(args, record.SortOrder)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return r.handlePostgresError("insert file", err)
	}
	record.ID = id
	return nil
}

func (r *Repository) UpdateFile(ctx context.Context, record *simplenotes.FileRecord, opts simplenotes.WriteOptions) error {
	args := []any{
		record.Name, record.DisplayName, record.Title,
		record.FilePath, record.FileURL, record.UpdatedAt,
	}

	query := `UPDATE ` + r.table + ` SET
			display_name = $2, title = $3, file_path = $4, file_url = $5, updated_at = $6
		WHERE name = $1`
	if opts.IncludeSortOrder {
		query = `UPDATE ` + r.table + ` SET
			display_name = $2, title = $3, file_path = $4, file_url = $5, updated_at = $6,
			sort_order = $7
		WHERE name = $1`
		args = append(args, record.SortOrder)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.handlePostgresError("update file", err)
	}
	if tag.RowsAffected() == 0 {
		return simplenotes.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteByName(ctx context.Context, name string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+r.table+` WHERE name = $1`, name)
	if err != nil {
		return 0, r.handlePostgresError("delete file", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) ListNames(ctx context.Context, opts simplenotes.ListOptions) ([]string, error) {
	query := `SELECT name FROM ` + r.table
	if opts.OrderBySortOrder {
		query += ` ORDER BY sort_order ASC, name ASC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list names", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, r.handlePostgresError("list names", err)
	}
	return names, nil
}

func (r *Repository) ListFiles(ctx context.Context, opts simplenotes.ListOptions) ([]*simplenotes.FileRecord, error) {
	query := `SELECT ` + baseColumns + ` FROM ` + r.table
	if opts.OrderBySortOrder {
		query = `SELECT ` + baseColumns + `, sort_order FROM ` + r.table + ` ORDER BY sort_order ASC, name ASC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	defer rows.Close()

	var records []*simplenotes.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows, opts.OrderBySortOrder)
		if err != nil {
			return nil, r.handlePostgresError("list files", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	return records, nil
}

func (r *Repository) ProbeSortOrder(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `SELECT sort_order FROM `+r.table+` LIMIT 1`); err != nil {
		return r.handlePostgresError("probe sort_order", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `SELECT 1`); err != nil {
		return r.handlePostgresError("ping", err)
	}
	return nil
}
