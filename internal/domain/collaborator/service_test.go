package collaborator_test

import (
	"context"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/repository"
	"github.com/padsync/padsync/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*collaborator.Service, *mocks.CollaboratorRepository, *mocks.MembershipSource, *mocks.Notifier) {
	t.Helper()
	repo := &mocks.CollaboratorRepository{}
	members := &mocks.MembershipSource{}
	events := &mocks.Notifier{}
	svc := collaborator.NewService(repo, access.NewAuthority(members), events, nil)
	return svc, repo, members, events
}

func TestService_Invite(t *testing.T) {
	svc, repo, members, events := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "owner").Return(access.RoleOwner, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*collaborator.Collaborator")).Return(nil)
	events.On("CollaboratorsChanged", "p1").Return()

	collab, err := svc.Invite(ctx, collaborator.InviteRequest{
		ProjectID: "p1",
		Email:     "  B@X.com ",
		Role:      access.RoleEditor,
	}, "owner")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", collab.Email)
	require.Equal(t, collaborator.StatusPending, collab.InviteStatus)
	require.Empty(t, collab.UserID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_Invite_Duplicate(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "owner").Return(access.RoleOwner, nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Invite(ctx, collaborator.InviteRequest{ProjectID: "p1", Email: "b@x.com", Role: access.RoleViewer}, "owner")
	require.ErrorIs(t, err, collaborator.ErrDuplicateInvite)
}

func TestService_Invite_OnlyOwner(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "editor").Return(access.RoleEditor, nil)

	_, err := svc.Invite(ctx, collaborator.InviteRequest{ProjectID: "p1", Email: "b@x.com", Role: access.RoleViewer}, "editor")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Invite_RejectsOwnerRole(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Invite(context.Background(), collaborator.InviteRequest{
		ProjectID: "p1",
		Email:     "b@x.com",
		Role:      access.RoleOwner,
	}, "owner")
	require.ErrorIs(t, err, collaborator.ErrInvalidInput)
}

func TestService_Invite_BadEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Invite(context.Background(), collaborator.InviteRequest{
		ProjectID: "p1",
		Email:     "not-an-email",
		Role:      access.RoleEditor,
	}, "owner")
	require.ErrorIs(t, err, collaborator.ErrInvalidInput)
}

func TestService_Accept(t *testing.T) {
	svc, repo, _, events := newTestService(t)
	ctx := context.Background()

	pending := &collaborator.Collaborator{
		ID: "i1", ProjectID: "p1", Email: "b@x.com",
		Role: access.RoleEditor, InviteStatus: collaborator.StatusPending, InvitedAt: time.Now().UTC(),
	}
	repo.On("Get", ctx, "i1").Return(pending, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *collaborator.Collaborator) bool {
		return c.UserID == "b1" && c.InviteStatus == collaborator.StatusAccepted
	})).Return(nil)
	events.On("CollaboratorsChanged", "p1").Return()

	collab, err := svc.Accept(ctx, "i1", "b1")
	require.NoError(t, err)
	require.Equal(t, "b1", collab.UserID)
	require.True(t, collab.Accepted())
	repo.AssertExpectations(t)
}

func TestService_Accept_Idempotent(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	accepted := &collaborator.Collaborator{
		ID: "i1", ProjectID: "p1", UserID: "b1", Email: "b@x.com",
		Role: access.RoleEditor, InviteStatus: collaborator.StatusAccepted,
	}
	repo.On("Get", ctx, "i1").Return(accepted, nil)

	collab, err := svc.Accept(ctx, "i1", "b1")
	require.NoError(t, err)
	require.Equal(t, "b1", collab.UserID)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Accept_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.Accept(ctx, "missing", "b1")
	require.ErrorIs(t, err, collaborator.ErrInviteNotFound)
}

func TestService_ListForProject_RequiresMembership(t *testing.T) {
	svc, repo, members, _ := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "stranger").Return(nil, repository.ErrNotFound)

	_, err := svc.ListForProject(ctx, "p1", "stranger")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	repo.AssertNotCalled(t, "ListForProject", mock.Anything, mock.Anything)
}
