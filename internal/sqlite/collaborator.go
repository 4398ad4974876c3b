package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/repository"
)

// CollaboratorRepository implements collaborator.Repository and
// access.MembershipSource for SQLite.
type CollaboratorRepository struct {
	db *DB
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *DB) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

// Create inserts a collaborator row. The unique index on (project_id, email)
// rejects a second invite for the same address, including under concurrent
// inserts: exactly one of the racing writes commits.
func (r *CollaboratorRepository) Create(ctx context.Context, collab *collaborator.Collaborator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collaborators (id, project_id, user_id, email, role, invite_status, invited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		collab.ID,
		collab.ProjectID,
		collab.UserID,
		collab.Email,
		collab.Role,
		collab.InviteStatus,
		collab.InvitedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create collaborator: %w", err)
	}
	return nil
}

// Get retrieves a collaborator row by ID
func (r *CollaboratorRepository) Get(ctx context.Context, id string) (*collaborator.Collaborator, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, user_id, email, role, invite_status, invited_at
		FROM collaborators
		WHERE id = ?
	`, id)
	return scanCollaborator(row)
}

// Update persists changed invite state
func (r *CollaboratorRepository) Update(ctx context.Context, collab *collaborator.Collaborator) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE collaborators
		SET user_id = ?, invite_status = ?, role = ?
		WHERE id = ?
	`,
		collab.UserID,
		collab.InviteStatus,
		collab.Role,
		collab.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update collaborator: %w", err)
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

// ListForUser returns all memberships bound to a user ID
func (r *CollaboratorRepository) ListForUser(ctx context.Context, userID string) ([]collaborator.Collaborator, error) {
	return r.list(ctx, `
		SELECT id, project_id, user_id, email, role, invite_status, invited_at
		FROM collaborators
		WHERE user_id = ?
		ORDER BY invited_at DESC
	`, userID)
}

// ListForProject returns all collaborator rows of a project
func (r *CollaboratorRepository) ListForProject(ctx context.Context, projectID string) ([]collaborator.Collaborator, error) {
	return r.list(ctx, `
		SELECT id, project_id, user_id, email, role, invite_status, invited_at
		FROM collaborators
		WHERE project_id = ?
		ORDER BY invited_at ASC
	`, projectID)
}

// AcceptedRole resolves the user's accepted role in a project. Pending
// invites are invisible here: an invitee has no access until acceptance.
func (r *CollaboratorRepository) AcceptedRole(ctx context.Context, projectID, userID string) (access.Role, error) {
	var role access.Role
	err := r.db.QueryRowContext(ctx, `
		SELECT role
		FROM collaborators
		WHERE project_id = ? AND user_id = ? AND invite_status = 'accepted'
	`, projectID, userID).Scan(&role)

	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	return role, nil
}

func (r *CollaboratorRepository) list(ctx context.Context, query string, arg string) ([]collaborator.Collaborator, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	defer rows.Close()

	var collabs []collaborator.Collaborator
	for rows.Next() {
		var c collaborator.Collaborator
		err := rows.Scan(
			&c.ID,
			&c.ProjectID,
			&c.UserID,
			&c.Email,
			&c.Role,
			&c.InviteStatus,
			&c.InvitedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collabs = append(collabs, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborator rows: %w", err)
	}
	return collabs, nil
}

func scanCollaborator(row *sql.Row) (*collaborator.Collaborator, error) {
	var c collaborator.Collaborator
	err := row.Scan(
		&c.ID,
		&c.ProjectID,
		&c.UserID,
		&c.Email,
		&c.Role,
		&c.InviteStatus,
		&c.InvitedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	return &c, nil
}
