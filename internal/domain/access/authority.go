package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/padsync/padsync/internal/repository"
)

// MembershipSource resolves a user's accepted role within a project.
// Pending invites must not be visible through this interface.
type MembershipSource interface {
	AcceptedRole(ctx context.Context, projectID, userID string) (Role, error)
}

// Authority answers role questions for project-scoped operations.
// It performs pure lookups and never mutates state.
type Authority struct {
	members MembershipSource
}

// NewAuthority creates an Authority backed by the given membership source.
func NewAuthority(members MembershipSource) *Authority {
	return &Authority{members: members}
}

// RoleOf returns the caller's accepted role for the project.
// Returns ErrNoAccess when no accepted membership exists, which includes
// pending invitees and projects that do not exist.
func (a *Authority) RoleOf(ctx context.Context, projectID, userID string) (Role, error) {
	role, err := a.members.AcceptedRole(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoAccess
		}
		return "", fmt.Errorf("resolving role: %w", err)
	}
	return role, nil
}

// RequireMember ensures the caller holds any accepted role on the project.
func (a *Authority) RequireMember(ctx context.Context, projectID, userID string) (Role, error) {
	role, err := a.RoleOf(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, ErrNoAccess) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	return role, nil
}

// RequireEditor ensures the caller may mutate file content in the project.
func (a *Authority) RequireEditor(ctx context.Context, projectID, userID string) (Role, error) {
	role, err := a.RequireMember(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if !role.CanEdit() {
		return "", ErrUnauthorized
	}
	return role, nil
}

// RequireOwner ensures the caller owns the project.
func (a *Authority) RequireOwner(ctx context.Context, projectID, userID string) (Role, error) {
	role, err := a.RequireMember(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if !role.CanInvite() {
		return "", ErrUnauthorized
	}
	return role, nil
}
