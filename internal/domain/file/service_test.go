package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/repository"
	"github.com/padsync/padsync/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*file.Service, *mocks.FileRepository, *mocks.MembershipSource, *mocks.Notifier) {
	t.Helper()
	repo := &mocks.FileRepository{}
	members := &mocks.MembershipSource{}
	events := &mocks.Notifier{}
	svc := file.NewService(repo, access.NewAuthority(members), events, nil)
	return svc, repo, members, events
}

func TestService_Create(t *testing.T) {
	svc, repo, members, events := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleEditor, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(f *file.File) bool {
		return f.Name == "script.py" && f.Path == "/" && f.Language == "python" && f.CreatedBy == "u1"
	})).Return(nil)
	events.On("FileTreeChanged", "p1").Return()

	f, err := svc.Create(ctx, file.CreateRequest{ProjectID: "p1", Name: "script.py"}, "u1")
	require.NoError(t, err)
	require.Equal(t, "python", f.Language)
	require.Equal(t, "/", f.Path)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_Create_ExplicitLanguageWins(t *testing.T) {
	svc, repo, members, events := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleOwner, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	events.On("FileTreeChanged", "p1").Return()

	f, err := svc.Create(ctx, file.CreateRequest{ProjectID: "p1", Name: "notes.txt", Language: "markdown"}, "u1")
	require.NoError(t, err)
	require.Equal(t, "markdown", f.Language)
}

func TestService_Create_ViewerUnauthorized(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "v1").Return(access.RoleViewer, nil)

	_, err := svc.Create(ctx, file.CreateRequest{ProjectID: "p1", Name: "a.go"}, "v1")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_Duplicate(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleEditor, nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Create(ctx, file.CreateRequest{ProjectID: "p1", Name: "a.go"}, "u1")
	require.ErrorIs(t, err, file.ErrDuplicateFile)
}

func TestService_Write(t *testing.T) {
	svc, repo, members, events := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleEditor, nil)
	repo.On("UpdateContent", ctx, "f1", "new content", "u1", mock.AnythingOfType("time.Time")).Return(nil)
	events.On("FileChanged", "f1").Return()

	require.NoError(t, svc.Write(ctx, "f1", "new content", "u1"))
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_Write_ViewerUnauthorized(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "v1").Return(access.RoleViewer, nil)

	err := svc.Write(ctx, "f1", "nope", "v1")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	repo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Write_MissingFile(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	// A missing file reports not-found even to callers with no role anywhere;
	// there is no project to authorize against.
	repo.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)

	err := svc.Write(ctx, "ghost", "content", "u1")
	require.ErrorIs(t, err, file.ErrFileNotFound)
	members.AssertNotCalled(t, "AcceptedRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Rename(t *testing.T) {
	svc, repo, members, events := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1", Name: "old.go", Path: "/src"}, nil)
	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleEditor, nil)
	// Empty path keeps the current one.
	repo.On("UpdateLocation", ctx, "f1", "new.go", "/src", mock.AnythingOfType("time.Time")).Return(nil)
	events.On("FileTreeChanged", "p1").Return()

	require.NoError(t, svc.Rename(ctx, "f1", "new.go", "", "u1"))
	repo.AssertExpectations(t)
}

func TestService_Rename_DuplicateLocation(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1", Path: "/"}, nil)
	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleOwner, nil)
	repo.On("UpdateLocation", ctx, "f1", "taken.go", "/", mock.AnythingOfType("time.Time")).Return(repository.ErrDuplicate)

	err := svc.Rename(ctx, "f1", "taken.go", "/", "u1")
	require.ErrorIs(t, err, file.ErrDuplicateFile)
}

func TestService_Read(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	updated := time.Now().UTC()
	repo.On("Get", ctx, "f1").Return(&file.File{
		ID: "f1", ProjectID: "p1", Content: "hello", Language: "go",
		LastEditedBy: "u2", UpdatedAt: updated,
	}, nil)
	members.On("AcceptedRole", ctx, "p1", "v1").Return(access.RoleViewer, nil)

	snap, err := svc.Read(ctx, "f1", "v1")
	require.NoError(t, err)
	require.Equal(t, "hello", snap.Content)
	require.Equal(t, "u2", snap.LastEditedBy)
	require.Equal(t, updated, snap.UpdatedAt)
}

func TestService_Read_NonMember(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "f1").Return(&file.File{ID: "f1", ProjectID: "p1"}, nil)
	members.On("AcceptedRole", ctx, "p1", "stranger").Return(nil, repository.ErrNotFound)

	_, err := svc.Read(ctx, "f1", "stranger")
	require.ErrorIs(t, err, access.ErrUnauthorized)
}

func TestService_ListForProject(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleViewer, nil)
	repo.On("ListForProject", ctx, "p1").Return([]file.Info{{ID: "f1", Name: "a.go"}}, nil)

	infos, err := svc.ListForProject(ctx, "p1", "u1")
	require.NoError(t, err)
	require.Len(t, infos, 1)
}
