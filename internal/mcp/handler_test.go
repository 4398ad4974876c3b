package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type projectStub struct {
	createFn func(context.Context, project.CreateRequest, string) (*project.Project, error)
	getFn    func(context.Context, string, string) (*project.Project, access.Role, error)
	listFn   func(context.Context, string) ([]project.Summary, error)
}

func (p projectStub) Create(ctx context.Context, req project.CreateRequest, callerID string) (*project.Project, error) {
	return p.createFn(ctx, req, callerID)
}
func (p projectStub) Get(ctx context.Context, id, callerID string) (*project.Project, access.Role, error) {
	return p.getFn(ctx, id, callerID)
}
func (p projectStub) ListForUser(ctx context.Context, userID string) ([]project.Summary, error) {
	return p.listFn(ctx, userID)
}

type collaboratorStub struct {
	inviteFn func(context.Context, collaborator.InviteRequest, string) (*collaborator.Collaborator, error)
	acceptFn func(context.Context, string, string) (*collaborator.Collaborator, error)
	listFn   func(context.Context, string, string) ([]collaborator.Collaborator, error)
}

func (c collaboratorStub) Invite(ctx context.Context, req collaborator.InviteRequest, callerID string) (*collaborator.Collaborator, error) {
	return c.inviteFn(ctx, req, callerID)
}
func (c collaboratorStub) Accept(ctx context.Context, inviteID, callerID string) (*collaborator.Collaborator, error) {
	return c.acceptFn(ctx, inviteID, callerID)
}
func (c collaboratorStub) ListForProject(ctx context.Context, projectID, callerID string) ([]collaborator.Collaborator, error) {
	return c.listFn(ctx, projectID, callerID)
}

type fileStub struct {
	createFn func(context.Context, file.CreateRequest, string) (*file.File, error)
	writeFn  func(context.Context, string, string, string) error
	renameFn func(context.Context, string, string, string, string) error
	readFn   func(context.Context, string, string) (*file.Snapshot, error)
	listFn   func(context.Context, string, string) ([]file.Info, error)
}

func (f fileStub) Create(ctx context.Context, req file.CreateRequest, callerID string) (*file.File, error) {
	return f.createFn(ctx, req, callerID)
}
func (f fileStub) Write(ctx context.Context, fileID, content, callerID string) error {
	return f.writeFn(ctx, fileID, content, callerID)
}
func (f fileStub) Rename(ctx context.Context, fileID, newName, newPath, callerID string) error {
	return f.renameFn(ctx, fileID, newName, newPath, callerID)
}
func (f fileStub) Read(ctx context.Context, fileID, callerID string) (*file.Snapshot, error) {
	return f.readFn(ctx, fileID, callerID)
}
func (f fileStub) ListForProject(ctx context.Context, projectID, callerID string) ([]file.Info, error) {
	return f.listFn(ctx, projectID, callerID)
}

type presenceStub struct {
	reportFn func(context.Context, presence.ReportRequest, time.Time, string) error
	listFn   func(context.Context, string, time.Time, time.Duration, string) ([]presence.Presence, error)
}

func (p presenceStub) Report(ctx context.Context, req presence.ReportRequest, now time.Time, callerID string) error {
	return p.reportFn(ctx, req, now, callerID)
}
func (p presenceStub) ListLive(ctx context.Context, fileID string, now time.Time, window time.Duration, callerID string) ([]presence.Presence, error) {
	return p.listFn(ctx, fileID, now, window, callerID)
}

func callerContext(id Identity) context.Context {
	return context.WithValue(context.Background(), identityKey, id)
}

func TestHandler_CreateProject_UsesCallerIdentity(t *testing.T) {
	var gotReq project.CreateRequest
	var gotCaller string
	h := NewHandler(projectStub{
		createFn: func(_ context.Context, req project.CreateRequest, callerID string) (*project.Project, error) {
			gotReq = req
			gotCaller = callerID
			return &project.Project{ID: "p1", Name: req.Name, OwnerID: callerID}, nil
		},
	}, nil, nil, nil)

	ctx := callerContext(Identity{UserID: "u1", Email: "u1@x.com"})
	_, resp, err := h.createProject(ctx, nil, CreateProjectParams{Name: "demo"})
	require.NoError(t, err)
	require.Equal(t, "u1", gotCaller)
	require.Equal(t, "u1@x.com", gotReq.OwnerEmail)
	require.Equal(t, "owner", resp.Role)
}

func TestHandler_InviteCollaborator_MapsDuplicate(t *testing.T) {
	h := NewHandler(nil, collaboratorStub{
		inviteFn: func(context.Context, collaborator.InviteRequest, string) (*collaborator.Collaborator, error) {
			return nil, collaborator.ErrDuplicateInvite
		},
	}, nil, nil)

	ctx := callerContext(Identity{UserID: "u1"})
	_, _, err := h.inviteCollaborator(ctx, nil, InviteCollaboratorParams{ProjectID: "p1", Email: "b@x.com", Role: "editor"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "DUPLICATE_INVITE", apiErr.Code)
}

func TestHandler_WriteFile_MapsUnauthorized(t *testing.T) {
	h := NewHandler(nil, nil, fileStub{
		writeFn: func(context.Context, string, string, string) error {
			return access.ErrUnauthorized
		},
	}, nil)

	ctx := callerContext(Identity{UserID: "viewer"})
	_, _, err := h.writeFile(ctx, nil, WriteFileParams{FileID: "f1", Content: "x"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestHandler_ReportPresence_FallsBackToIdentityName(t *testing.T) {
	var gotReq presence.ReportRequest
	h := NewHandler(nil, nil, nil, presenceStub{
		reportFn: func(_ context.Context, req presence.ReportRequest, _ time.Time, _ string) error {
			gotReq = req
			return nil
		},
	})

	ctx := callerContext(Identity{UserID: "u1", Name: "Ada", Avatar: "https://x/a.png"})
	_, resp, err := h.reportPresence(ctx, nil, ReportPresenceParams{
		FileID: "f1",
		Cursor: CursorParams{Line: 3, Column: 7},
	})
	require.NoError(t, err)
	require.Equal(t, "reported", resp.Status)
	require.Equal(t, "Ada", gotReq.Name)
	require.Equal(t, "https://x/a.png", gotReq.Avatar)
	require.Equal(t, 3, gotReq.Cursor.Line)
}

func TestHandler_ListPresence_WindowSeconds(t *testing.T) {
	var gotWindow time.Duration
	h := NewHandler(nil, nil, nil, presenceStub{
		listFn: func(_ context.Context, _ string, _ time.Time, window time.Duration, _ string) ([]presence.Presence, error) {
			gotWindow = window
			return []presence.Presence{{UserID: "u2", Name: "Bo", Cursor: presence.Cursor{Line: 1}}}, nil
		},
	})

	ctx := callerContext(Identity{UserID: "u1"})
	_, resp, err := h.listPresence(ctx, nil, ListPresenceParams{FileID: "f1", WindowSeconds: 30})
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, gotWindow)
	require.Len(t, resp.Users, 1)
	require.Equal(t, "u2", resp.Users[0].UserID)
}

func TestMapError_UnknownErrorPassesThrough(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(context.DeadlineExceeded))

	err := mapError(context.DeadlineExceeded)
	require.Equal(t, context.DeadlineExceeded, err)
}
