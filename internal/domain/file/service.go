package file

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

// Service owns file content and metadata. Writes are gated on the caller's
// project role; concurrent writes to one file resolve by last-write-wins in
// store commit order, with no merge and no base-version check.
type Service struct {
	repo      Repository
	authority *access.Authority
	events    Notifier
	logger    *slog.Logger
}

// NewService creates a new file service.
func NewService(repo Repository, authority *access.Authority, events Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, authority: authority, events: events, logger: logger}
}

// CreateRequest defines file creation inputs. Path defaults to "/" and
// Language is inferred from the name's extension when empty.
type CreateRequest struct {
	ProjectID string
	Name      string
	Path      string
	Language  string
	Content   string
}

// Create adds a file to a project. Requires owner or editor role; a file
// already occupying (project, path, name) fails with ErrDuplicateFile.
func (s *Service) Create(ctx context.Context, req CreateRequest, callerID string) (*File, error) {
	if strings.TrimSpace(req.Name) == "" || req.ProjectID == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.authority.RequireEditor(ctx, req.ProjectID, callerID); err != nil {
		return nil, err
	}

	path := req.Path
	if path == "" {
		path = "/"
	}
	language := req.Language
	if language == "" {
		language = InferLanguage(req.Name)
	}

	now := time.Now().UTC()
	f := &File{
		ID:           uuid.NewString(),
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		Path:         path,
		Content:      req.Content,
		Language:     language,
		CreatedBy:    callerID,
		LastEditedBy: callerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFile
		}
		return nil, fmt.Errorf("creating file: %w", err)
	}

	s.events.FileTreeChanged(req.ProjectID)
	return f, nil
}

// Write replaces a file's content. The most recently committed write wins
// outright; two users racing on the same file can clobber each other's
// edits, which is the documented conflict policy.
func (s *Service) Write(ctx context.Context, fileID, content, callerID string) error {
	f, err := s.load(ctx, fileID)
	if err != nil {
		return err
	}
	if _, err := s.authority.RequireEditor(ctx, f.ProjectID, callerID); err != nil {
		return err
	}

	if err := s.repo.UpdateContent(ctx, fileID, content, callerID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("writing file: %w", err)
	}

	s.events.FileChanged(fileID)
	return nil
}

// Rename moves a file to a new (path, name) location within its project.
func (s *Service) Rename(ctx context.Context, fileID, newName, newPath, callerID string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrInvalidInput
	}

	f, err := s.load(ctx, fileID)
	if err != nil {
		return err
	}
	if _, err := s.authority.RequireEditor(ctx, f.ProjectID, callerID); err != nil {
		return err
	}

	if newPath == "" {
		newPath = f.Path
	}
	if err := s.repo.UpdateLocation(ctx, fileID, newName, newPath, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateFile
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("renaming file: %w", err)
	}

	s.events.FileTreeChanged(f.ProjectID)
	return nil
}

// Read returns a file's content and edit metadata. Any accepted role on the
// file's project may read.
func (s *Service) Read(ctx context.Context, fileID, callerID string) (*Snapshot, error) {
	f, err := s.load(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authority.RequireMember(ctx, f.ProjectID, callerID); err != nil {
		return nil, err
	}
	return &Snapshot{
		Content:      f.Content,
		Language:     f.Language,
		LastEditedBy: f.LastEditedBy,
		UpdatedAt:    f.UpdatedAt,
	}, nil
}

// Get returns the full file row, membership-gated.
func (s *Service) Get(ctx context.Context, fileID, callerID string) (*File, error) {
	f, err := s.load(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authority.RequireMember(ctx, f.ProjectID, callerID); err != nil {
		return nil, err
	}
	return f, nil
}

// ListForProject returns file metadata for a project, membership-gated.
func (s *Service) ListForProject(ctx context.Context, projectID, callerID string) ([]Info, error) {
	if _, err := s.authority.RequireMember(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectID)
}

func (s *Service) load(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, ErrInvalidInput
	}
	f, err := s.repo.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("loading file: %w", err)
	}
	return f, nil
}
