package presence_test

import (
	"context"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/repository"
	"github.com/padsync/padsync/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*presence.Service, *mocks.PresenceRepository, *mocks.FileRepository, *mocks.MembershipSource, *mocks.Notifier) {
	t.Helper()
	rows := &mocks.PresenceRepository{}
	files := &mocks.FileRepository{}
	members := &mocks.MembershipSource{}
	events := &mocks.Notifier{}
	svc := presence.NewService(rows, files, access.NewAuthority(members), events, nil)
	return svc, rows, files, members, events
}

func TestService_Report(t *testing.T) {
	svc, rows, files, members, events := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	files.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "v1").Return(access.RoleViewer, nil)
	rows.On("Upsert", ctx, mock.MatchedBy(func(p *presence.Presence) bool {
		return p.FileID == "f1" && p.UserID == "v1" && p.LastSeen.Equal(now) && p.Cursor.Line == 4
	})).Return(nil)
	events.On("PresenceChanged", "f1").Return()

	err := svc.Report(ctx, presence.ReportRequest{
		FileID: "f1",
		Name:   "Val",
		Cursor: presence.Cursor{Line: 4, Column: 2},
	}, now, "v1")
	require.NoError(t, err)
	rows.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_Report_InvalidCursor(t *testing.T) {
	svc, rows, _, _, _ := newTestService(t)

	err := svc.Report(context.Background(), presence.ReportRequest{
		FileID: "f1",
		Cursor: presence.Cursor{Line: -1, Column: 0},
	}, time.Now(), "u1")
	require.ErrorIs(t, err, presence.ErrInvalidCursor)
	rows.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_Report_MissingFile(t *testing.T) {
	svc, _, files, _, _ := newTestService(t)
	ctx := context.Background()

	files.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)

	err := svc.Report(ctx, presence.ReportRequest{FileID: "ghost", Cursor: presence.Cursor{Line: 0, Column: 0}}, time.Now(), "u1")
	require.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestService_Report_NonMember(t *testing.T) {
	svc, rows, files, members, _ := newTestService(t)
	ctx := context.Background()

	files.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "stranger").Return(nil, repository.ErrNotFound)

	err := svc.Report(ctx, presence.ReportRequest{FileID: "f1", Cursor: presence.Cursor{}}, time.Now(), "stranger")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	rows.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_Heartbeat(t *testing.T) {
	svc, rows, _, _, events := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows.On("Touch", ctx, "f1", "u1", now).Return(nil)
	events.On("PresenceChanged", "f1").Return()

	require.NoError(t, svc.Heartbeat(ctx, "f1", now, "u1"))
	rows.AssertExpectations(t)
}

func TestService_Heartbeat_MissingRowIsNoop(t *testing.T) {
	svc, rows, _, _, events := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows.On("Touch", ctx, "f1", "u1", now).Return(repository.ErrNotFound)

	require.NoError(t, svc.Heartbeat(ctx, "f1", now, "u1"))
	events.AssertNotCalled(t, "PresenceChanged", mock.Anything)
}

func TestService_ListLive_WindowBoundary(t *testing.T) {
	svc, rows, files, members, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	files.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleViewer, nil)

	// A 31s-old row survives the 40s window but not the 30s one. The cutoff
	// passed to storage is exactly now minus the window.
	rows.On("ListSince", ctx, "f1", now.Add(-40*time.Second)).Return([]presence.Presence{
		{FileID: "f1", UserID: "u2", LastSeen: now.Add(-31 * time.Second)},
	}, nil).Once()
	rows.On("ListSince", ctx, "f1", now.Add(-30*time.Second)).Return([]presence.Presence(nil), nil).Once()

	live, err := svc.ListLive(ctx, "f1", now, 40*time.Second, "u1")
	require.NoError(t, err)
	require.Len(t, live, 1)

	live, err = svc.ListLive(ctx, "f1", now, 30*time.Second, "u1")
	require.NoError(t, err)
	require.Empty(t, live)
	rows.AssertExpectations(t)
}

func TestService_ListLive_DefaultsToCursorWindow(t *testing.T) {
	svc, rows, files, members, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	files.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleEditor, nil)
	rows.On("ListSince", ctx, "f1", now.Add(-presence.CursorWindow)).Return([]presence.Presence{}, nil)

	_, err := svc.ListLive(ctx, "f1", now, 0, "u1")
	require.NoError(t, err)
	rows.AssertExpectations(t)
}

func TestPresence_LiveAt_BoundaryInclusive(t *testing.T) {
	now := time.Now().UTC()
	p := &presence.Presence{LastSeen: now.Add(-presence.ViewerWindow)}
	require.True(t, p.LiveAt(now, presence.ViewerWindow))
	require.False(t, p.LiveAt(now.Add(time.Nanosecond), presence.ViewerWindow))
}
