package collaborator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/repository"
)

// Service handles invitation lifecycle operations.
type Service struct {
	repo      Repository
	authority *access.Authority
	events    Notifier
	logger    *slog.Logger
}

// NewService creates a new collaborator service.
func NewService(repo Repository, authority *access.Authority, events Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, authority: authority, events: events, logger: logger}
}

// InviteRequest defines invitation inputs.
type InviteRequest struct {
	ProjectID string
	Email     string
	Role      access.Role
}

// Invite creates a pending collaborator row for an email address.
// Only the project owner may invite; inviting the same email twice for
// one project fails with ErrDuplicateInvite.
func (s *Service) Invite(ctx context.Context, req InviteRequest, callerID string) (*Collaborator, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	// Ownership is assigned at project creation and never by invitation.
	if req.Role != access.RoleEditor && req.Role != access.RoleViewer {
		return nil, ErrInvalidInput
	}

	if _, err := s.authority.RequireOwner(ctx, req.ProjectID, callerID); err != nil {
		return nil, err
	}

	collab := &Collaborator{
		ID:           uuid.NewString(),
		ProjectID:    req.ProjectID,
		UserID:       "",
		Email:        email,
		Role:         req.Role,
		InviteStatus: StatusPending,
		InvitedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, collab); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateInvite
		}
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	s.logger.Info("collaborator invited", "project", req.ProjectID, "role", req.Role)
	s.events.CollaboratorsChanged(req.ProjectID)
	return collab, nil
}

// Accept binds the caller's user ID to a pending invite.
// Accepting an already-accepted invite is a no-op.
func (s *Service) Accept(ctx context.Context, inviteID, callerID string) (*Collaborator, error) {
	if inviteID == "" || callerID == "" {
		return nil, ErrInvalidInput
	}

	collab, err := s.repo.Get(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}

	if collab.Accepted() {
		return collab, nil
	}

	collab.UserID = callerID
	collab.InviteStatus = StatusAccepted
	if err := s.repo.Update(ctx, collab); err != nil {
		return nil, fmt.Errorf("accepting invite: %w", err)
	}

	s.events.CollaboratorsChanged(collab.ProjectID)
	return collab, nil
}

// ListForUser returns all memberships for a user, pending and accepted.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Collaborator, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListForProject returns a project's collaborator rows. Callers must hold
// an accepted role on the project.
func (s *Service) ListForProject(ctx context.Context, projectID, callerID string) ([]Collaborator, error) {
	if _, err := s.authority.RequireMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectID)
}
