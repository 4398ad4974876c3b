package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo      Repository
	authority *access.Authority
	logger    *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, authority *access.Authority, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, authority: authority, logger: logger}
}

// CreateRequest defines project creation inputs. OwnerEmail comes from the
// caller's identity and seeds the owner collaborator row.
type CreateRequest struct {
	Name        string
	Description string
	OwnerEmail  string
}

// Create creates a project together with its owner collaborator record.
// The two inserts commit as one unit so a project can never be observed
// without its owner membership.
func (s *Service) Create(ctx context.Context, req CreateRequest, callerID string) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" || callerID == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	proj := &Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &collaborator.Collaborator{
		ID:           uuid.NewString(),
		ProjectID:    proj.ID,
		UserID:       callerID,
		Email:        strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
		Role:         access.RoleOwner,
		InviteStatus: collaborator.StatusAccepted,
		InvitedAt:    now,
	}

	if err := s.repo.CreateWithOwner(ctx, proj, owner); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project", proj.ID, "owner", callerID)
	return proj, nil
}

// Get fetches a project the caller is a member of. The membership check runs
// before the row lookup so a non-member learns nothing about whether the
// project exists.
func (s *Service) Get(ctx context.Context, id, callerID string) (*Project, access.Role, error) {
	role, err := s.authority.RequireMember(ctx, id, callerID)
	if err != nil {
		return nil, "", err
	}

	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrProjectNotFound
		}
		return nil, "", fmt.Errorf("getting project: %w", err)
	}
	return proj, role, nil
}

// ListForUser returns summaries of every project the user has an accepted
// membership in.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	return s.repo.ListForUser(ctx, userID)
}
