package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/project"
	"github.com/padsync/padsync/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateWithOwner inserts a project and its owner collaborator row in one
// transaction. Either both rows commit or neither does.
func (r *ProjectRepository) CreateWithOwner(ctx context.Context, proj *project.Project, owner *collaborator.Collaborator) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.OwnerID,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collaborators (id, project_id, user_id, email, role, invite_status, invited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		owner.ID,
		owner.ProjectID,
		owner.UserID,
		owner.Email,
		owner.Role,
		owner.InviteStatus,
		owner.InvitedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create owner collaborator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.OwnerID,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// ListForUser returns summaries of projects the user holds an accepted
// membership in, newest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.owner_id,
			me.role,
			COUNT(DISTINCT f.id) AS file_count,
			COUNT(DISTINCT c.id) AS collaborators,
			p.created_at,
			p.updated_at
		FROM projects p
		JOIN collaborators me ON me.project_id = p.id
			AND me.user_id = ? AND me.invite_status = 'accepted'
		LEFT JOIN files f ON f.project_id = p.id
		LEFT JOIN collaborators c ON c.project_id = p.id
		GROUP BY p.id, p.name, p.description, p.owner_id, me.role, p.created_at, p.updated_at
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.OwnerID,
			&summary.Role,
			&summary.FileCount,
			&summary.Collaborators,
			&summary.CreatedAt,
			&summary.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}
