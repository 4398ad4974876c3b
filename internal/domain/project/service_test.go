package project_test

import (
	"context"
	"testing"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/project"
	"github.com/padsync/padsync/internal/repository"
	"github.com/padsync/padsync/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*project.Service, *mocks.ProjectRepository, *mocks.MembershipSource) {
	t.Helper()
	repo := &mocks.ProjectRepository{}
	members := &mocks.MembershipSource{}
	svc := project.NewService(repo, access.NewAuthority(members), nil)
	return svc, repo, members
}

func TestService_Create(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("CreateWithOwner", ctx,
		mock.MatchedBy(func(p *project.Project) bool {
			return p.Name == "demo" && p.OwnerID == "u1"
		}),
		mock.MatchedBy(func(c *collaborator.Collaborator) bool {
			return c.UserID == "u1" &&
				c.Role == access.RoleOwner &&
				c.InviteStatus == collaborator.StatusAccepted &&
				c.Email == "u1@example.com"
		}),
	).Return(nil)

	proj, err := svc.Create(ctx, project.CreateRequest{Name: "demo", OwnerEmail: "U1@Example.com"}, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "u1", proj.OwnerID)
	repo.AssertExpectations(t)
}

func TestService_Create_EmptyName(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.Create(context.Background(), project.CreateRequest{Name: "   "}, "u1")
	require.ErrorIs(t, err, project.ErrInvalidInput)
	repo.AssertNotCalled(t, "CreateWithOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Get(t *testing.T) {
	svc, repo, members := newTestService(t)
	ctx := context.Background()

	members.On("AcceptedRole", ctx, "p1", "u1").Return(access.RoleViewer, nil)
	repo.On("Get", ctx, "p1").Return(&project.Project{ID: "p1", Name: "demo"}, nil)

	proj, role, err := svc.Get(ctx, "p1", "u1")
	require.NoError(t, err)
	require.Equal(t, "demo", proj.Name)
	require.Equal(t, access.RoleViewer, role)
}

func TestService_Get_NonMemberLearnsNothing(t *testing.T) {
	svc, repo, members := newTestService(t)
	ctx := context.Background()

	// Same error whether or not the project exists.
	members.On("AcceptedRole", ctx, "p1", "stranger").Return(nil, repository.ErrNotFound)
	members.On("AcceptedRole", ctx, "ghost", "stranger").Return(nil, repository.ErrNotFound)

	_, _, err := svc.Get(ctx, "p1", "stranger")
	require.ErrorIs(t, err, access.ErrUnauthorized)

	_, _, err = svc.Get(ctx, "ghost", "stranger")
	require.ErrorIs(t, err, access.ErrUnauthorized)

	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_ListForUser(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.On("ListForUser", ctx, "u1").Return([]project.Summary{{ID: "p1", Role: access.RoleOwner}}, nil)

	summaries, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "p1", summaries[0].ID)
}
