package project

import (
	"context"

	"github.com/padsync/padsync/internal/domain/collaborator"
)

// Repository provides persistence for projects.
// CreateWithOwner must insert the project and its owner collaborator row in
// one transaction: a project must never exist without exactly one owner.
type Repository interface {
	CreateWithOwner(ctx context.Context, proj *Project, owner *collaborator.Collaborator) error
	Get(ctx context.Context, id string) (*Project, error)
	ListForUser(ctx context.Context, userID string) ([]Summary, error)
}
