package mocks

import (
	"context"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// MembershipSource is a mock for access.MembershipSource.
type MembershipSource struct {
	mock.Mock
}

func (m *MembershipSource) AcceptedRole(ctx context.Context, projectID, userID string) (access.Role, error) {
	args := m.Called(ctx, projectID, userID)
	if role, ok := args.Get(0).(access.Role); ok {
		return role, args.Error(1)
	}
	return "", args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) CreateWithOwner(ctx context.Context, proj *project.Project, owner *collaborator.Collaborator) error {
	args := m.Called(ctx, proj, owner)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]project.Summary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CollaboratorRepository is a mock for collaborator.Repository.
type CollaboratorRepository struct {
	mock.Mock
}

func (m *CollaboratorRepository) Create(ctx context.Context, collab *collaborator.Collaborator) error {
	args := m.Called(ctx, collab)
	return args.Error(0)
}

func (m *CollaboratorRepository) Get(ctx context.Context, id string) (*collaborator.Collaborator, error) {
	args := m.Called(ctx, id)
	if collab, ok := args.Get(0).(*collaborator.Collaborator); ok {
		return collab, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaboratorRepository) Update(ctx context.Context, collab *collaborator.Collaborator) error {
	args := m.Called(ctx, collab)
	return args.Error(0)
}

func (m *CollaboratorRepository) ListForUser(ctx context.Context, userID string) ([]collaborator.Collaborator, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]collaborator.Collaborator); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollaboratorRepository) ListForProject(ctx context.Context, projectID string) ([]collaborator.Collaborator, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]collaborator.Collaborator); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// FileRepository is a mock for file.Repository.
type FileRepository struct {
	mock.Mock
}

func (m *FileRepository) Create(ctx context.Context, f *file.File) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FileRepository) Get(ctx context.Context, id string) (*file.File, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*file.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileRepository) UpdateContent(ctx context.Context, id, content, editorID string, now time.Time) error {
	args := m.Called(ctx, id, content, editorID, now)
	return args.Error(0)
}

func (m *FileRepository) UpdateLocation(ctx context.Context, id, name, path string, now time.Time) error {
	args := m.Called(ctx, id, name, path, now)
	return args.Error(0)
}

func (m *FileRepository) ListForProject(ctx context.Context, projectID string) ([]file.Info, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]file.Info); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PresenceRepository is a mock for presence.Repository.
type PresenceRepository struct {
	mock.Mock
}

func (m *PresenceRepository) Upsert(ctx context.Context, p *presence.Presence) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PresenceRepository) Touch(ctx context.Context, fileID, userID string, now time.Time) error {
	args := m.Called(ctx, fileID, userID, now)
	return args.Error(0)
}

func (m *PresenceRepository) ListSince(ctx context.Context, fileID string, cutoff time.Time) ([]presence.Presence, error) {
	args := m.Called(ctx, fileID, cutoff)
	if list, ok := args.Get(0).([]presence.Presence); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PresenceRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Notifier is a mock for the per-domain change notifier interfaces.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) FileChanged(fileID string) {
	m.Called(fileID)
}

func (m *Notifier) FileTreeChanged(projectID string) {
	m.Called(projectID)
}

func (m *Notifier) PresenceChanged(fileID string) {
	m.Called(fileID)
}

func (m *Notifier) CollaboratorsChanged(projectID string) {
	m.Called(projectID)
}
