package presence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/repository"
)

// Service tracks ephemeral cursor records. Every accepted collaborator on a
// file's project may report and observe presence, viewers included; presence
// is observation metadata, not a content mutation.
type Service struct {
	rows      Repository
	files     FileSource
	authority *access.Authority
	events    Notifier
	logger    *slog.Logger
}

// NewService creates a new presence service.
func NewService(rows Repository, files FileSource, authority *access.Authority, events Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{rows: rows, files: files, authority: authority, events: events, logger: logger}
}

// ReportRequest defines a cursor report.
type ReportRequest struct {
	FileID string
	Name   string
	Avatar string
	Cursor Cursor
}

// Report upserts the caller's presence row for a file. The row is replaced
// wholesale; a stale name or avatar from an earlier report does not survive.
func (s *Service) Report(ctx context.Context, req ReportRequest, now time.Time, callerID string) error {
	if req.FileID == "" || callerID == "" {
		return ErrInvalidInput
	}
	if !req.Cursor.Valid() {
		return ErrInvalidCursor
	}

	f, err := s.resolveFile(ctx, req.FileID)
	if err != nil {
		return err
	}
	if _, err := s.authority.RequireMember(ctx, f.ProjectID, callerID); err != nil {
		return err
	}

	row := &Presence{
		FileID:   req.FileID,
		UserID:   callerID,
		Name:     req.Name,
		Avatar:   req.Avatar,
		Cursor:   req.Cursor,
		LastSeen: now,
	}
	if err := s.rows.Upsert(ctx, row); err != nil {
		return fmt.Errorf("reporting presence: %w", err)
	}

	s.events.PresenceChanged(req.FileID)
	return nil
}

// Heartbeat bumps the caller's lastSeen without moving the cursor. A
// heartbeat for a row that doesn't exist yet is a no-op; the next full
// report will create it.
func (s *Service) Heartbeat(ctx context.Context, fileID string, now time.Time, callerID string) error {
	if fileID == "" || callerID == "" {
		return ErrInvalidInput
	}
	if err := s.rows.Touch(ctx, fileID, callerID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("heartbeat: %w", err)
	}
	s.events.PresenceChanged(fileID)
	return nil
}

// ListLive returns presence rows for a file no older than the window.
// Callers that render cursors filter out their own row themselves.
func (s *Service) ListLive(ctx context.Context, fileID string, now time.Time, window time.Duration, callerID string) ([]Presence, error) {
	if fileID == "" {
		return nil, ErrInvalidInput
	}
	if window <= 0 {
		window = CursorWindow
	}

	f, err := s.resolveFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authority.RequireMember(ctx, f.ProjectID, callerID); err != nil {
		return nil, err
	}

	return s.rows.ListSince(ctx, fileID, now.Add(-window))
}

func (s *Service) resolveFile(ctx context.Context, fileID string) (*file.File, error) {
	f, err := s.files.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, file.ErrFileNotFound
		}
		return nil, fmt.Errorf("resolving file: %w", err)
	}
	return f, nil
}
