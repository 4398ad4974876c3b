package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/repository"
)

// FileRepository implements file.Repository for SQLite
type FileRepository struct {
	db *DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts a file row. The unique index on (project_id, path, name)
// ensures no two live files share a location even under concurrent creates.
func (r *FileRepository) Create(ctx context.Context, f *file.File) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO files (id, project_id, name, path, content, language, created_by, last_edited_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.ID,
		f.ProjectID,
		f.Name,
		f.Path,
		f.Content,
		f.Language,
		f.CreatedBy,
		f.LastEditedBy,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// Get retrieves a file by ID
func (r *FileRepository) Get(ctx context.Context, id string) (*file.File, error) {
	query := `
		SELECT id, project_id, name, path, content, language, created_by, last_edited_by, created_at, updated_at
		FROM files
		WHERE id = ?
	`

	var f file.File
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.ProjectID,
		&f.Name,
		&f.Path,
		&f.Content,
		&f.Language,
		&f.CreatedBy,
		&f.LastEditedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &f, nil
}

// UpdateContent overwrites a file's content unconditionally. No base-version
// check: writes are ordered by commit order and the latest one wins.
func (r *FileRepository) UpdateContent(ctx context.Context, id, content, editorID string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE files
		SET content = ?, last_edited_by = ?, updated_at = ?
		WHERE id = ?
	`, content, editorID, now, id)
	if err != nil {
		return fmt.Errorf("failed to update file content: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateLocation moves a file to a new (path, name) within its project
func (r *FileRepository) UpdateLocation(ctx context.Context, id, name, path string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE files
		SET name = ?, path = ?, updated_at = ?
		WHERE id = ?
	`, name, path, now, id)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update file location: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListForProject returns file metadata for a project ordered by path then name
func (r *FileRepository) ListForProject(ctx context.Context, projectID string) ([]file.Info, error) {
	query := `
		SELECT id, project_id, name, path, language, last_edited_by, updated_at
		FROM files
		WHERE project_id = ?
		ORDER BY path ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var infos []file.Info
	for rows.Next() {
		var info file.Info
		err := rows.Scan(
			&info.ID,
			&info.ProjectID,
			&info.Name,
			&info.Path,
			&info.Language,
			&info.LastEditedBy,
			&info.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file info: %w", err)
		}
		infos = append(infos, info)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}
	return infos, nil
}
