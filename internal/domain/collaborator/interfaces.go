package collaborator

import "context"

// Repository provides persistence for collaborator rows.
// Create must fail with repository.ErrDuplicate when a row for the same
// (projectID, email) already exists; the storage layer enforces this with
// a unique index so concurrent invites cannot both commit.
type Repository interface {
	Create(ctx context.Context, collab *Collaborator) error
	Get(ctx context.Context, id string) (*Collaborator, error)
	Update(ctx context.Context, collab *Collaborator) error
	ListForUser(ctx context.Context, userID string) ([]Collaborator, error)
	ListForProject(ctx context.Context, projectID string) ([]Collaborator, error)
}

// Notifier publishes membership changes to live subscribers.
type Notifier interface {
	CollaboratorsChanged(projectID string)
}
