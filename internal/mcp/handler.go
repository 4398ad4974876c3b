package mcp

import (
	"context"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest, callerID string) (*project.Project, error)
	Get(ctx context.Context, id, callerID string) (*project.Project, access.Role, error)
	ListForUser(ctx context.Context, userID string) ([]project.Summary, error)
}

// CollaboratorService defines invitation operations needed by MCP.
type CollaboratorService interface {
	Invite(ctx context.Context, req collaborator.InviteRequest, callerID string) (*collaborator.Collaborator, error)
	Accept(ctx context.Context, inviteID, callerID string) (*collaborator.Collaborator, error)
	ListForProject(ctx context.Context, projectID, callerID string) ([]collaborator.Collaborator, error)
}

// FileService defines file operations needed by MCP.
type FileService interface {
	Create(ctx context.Context, req file.CreateRequest, callerID string) (*file.File, error)
	Write(ctx context.Context, fileID, content, callerID string) error
	Rename(ctx context.Context, fileID, newName, newPath, callerID string) error
	Read(ctx context.Context, fileID, callerID string) (*file.Snapshot, error)
	ListForProject(ctx context.Context, projectID, callerID string) ([]file.Info, error)
}

// PresenceService defines presence operations needed by MCP.
type PresenceService interface {
	Report(ctx context.Context, req presence.ReportRequest, now time.Time, callerID string) error
	ListLive(ctx context.Context, fileID string, now time.Time, window time.Duration, callerID string) ([]presence.Presence, error)
}

// Handler implements the MCP tool surface over the domain services. Every
// method resolves the caller from the request context; there is no ambient
// authentication below this layer.
type Handler struct {
	projects      ProjectService
	collaborators CollaboratorService
	files         FileService
	presence      PresenceService
	now           func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, collaborators CollaboratorService, files FileService, presenceSvc PresenceService) *Handler {
	return &Handler{
		projects:      projects,
		collaborators: collaborators,
		files:         files,
		presence:      presenceSvc,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) createProject(ctx context.Context, req *sdkmcp.CallToolRequest, params CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	caller := identityFromContext(ctx)
	proj, err := h.projects.Create(ctx, project.CreateRequest{
		Name:        params.Name,
		Description: params.Description,
		OwnerEmail:  caller.Email,
	}, caller.UserID)
	if err != nil {
		return nil, ProjectResponse{}, mapError(err)
	}
	return nil, projectResponse(proj, access.RoleOwner), nil
}

func (h *Handler) listProjects(ctx context.Context, req *sdkmcp.CallToolRequest, params ListProjectsParams) (*sdkmcp.CallToolResult, ProjectListResponse, error) {
	caller := identityFromContext(ctx)
	summaries, err := h.projects.ListForUser(ctx, caller.UserID)
	if err != nil {
		return nil, ProjectListResponse{}, mapError(err)
	}
	resp := ProjectListResponse{Projects: make([]ProjectSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		resp.Projects = append(resp.Projects, ProjectSummaryResponse{
			ID:            s.ID,
			Name:          s.Name,
			Description:   s.Description,
			Role:          string(s.Role),
			FileCount:     s.FileCount,
			Collaborators: s.Collaborators,
		})
	}
	return nil, resp, nil
}

func (h *Handler) getProject(ctx context.Context, req *sdkmcp.CallToolRequest, params GetProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	caller := identityFromContext(ctx)
	proj, role, err := h.projects.Get(ctx, params.ID, caller.UserID)
	if err != nil {
		return nil, ProjectResponse{}, mapError(err)
	}
	return nil, projectResponse(proj, role), nil
}

func (h *Handler) inviteCollaborator(ctx context.Context, req *sdkmcp.CallToolRequest, params InviteCollaboratorParams) (*sdkmcp.CallToolResult, CollaboratorResponse, error) {
	caller := identityFromContext(ctx)
	collab, err := h.collaborators.Invite(ctx, collaborator.InviteRequest{
		ProjectID: params.ProjectID,
		Email:     params.Email,
		Role:      access.Role(params.Role),
	}, caller.UserID)
	if err != nil {
		return nil, CollaboratorResponse{}, mapError(err)
	}
	return nil, collaboratorResponse(collab), nil
}

func (h *Handler) acceptInvite(ctx context.Context, req *sdkmcp.CallToolRequest, params AcceptInviteParams) (*sdkmcp.CallToolResult, CollaboratorResponse, error) {
	caller := identityFromContext(ctx)
	collab, err := h.collaborators.Accept(ctx, params.InviteID, caller.UserID)
	if err != nil {
		return nil, CollaboratorResponse{}, mapError(err)
	}
	return nil, collaboratorResponse(collab), nil
}

func (h *Handler) listCollaborators(ctx context.Context, req *sdkmcp.CallToolRequest, params ListCollaboratorsParams) (*sdkmcp.CallToolResult, CollaboratorListResponse, error) {
	caller := identityFromContext(ctx)
	collabs, err := h.collaborators.ListForProject(ctx, params.ProjectID, caller.UserID)
	if err != nil {
		return nil, CollaboratorListResponse{}, mapError(err)
	}
	resp := CollaboratorListResponse{Collaborators: make([]CollaboratorResponse, 0, len(collabs))}
	for i := range collabs {
		resp.Collaborators = append(resp.Collaborators, collaboratorResponse(&collabs[i]))
	}
	return nil, resp, nil
}

func (h *Handler) createFile(ctx context.Context, req *sdkmcp.CallToolRequest, params CreateFileParams) (*sdkmcp.CallToolResult, FileResponse, error) {
	caller := identityFromContext(ctx)
	f, err := h.files.Create(ctx, file.CreateRequest{
		ProjectID: params.ProjectID,
		Name:      params.Name,
		Path:      params.Path,
		Language:  params.Language,
		Content:   params.Content,
	}, caller.UserID)
	if err != nil {
		return nil, FileResponse{}, mapError(err)
	}
	return nil, fileResponse(f), nil
}

func (h *Handler) renameFile(ctx context.Context, req *sdkmcp.CallToolRequest, params RenameFileParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
	caller := identityFromContext(ctx)
	if err := h.files.Rename(ctx, params.FileID, params.Name, params.Path, caller.UserID); err != nil {
		return nil, StatusResponse{}, mapError(err)
	}
	return nil, StatusResponse{Status: "renamed"}, nil
}

func (h *Handler) listFiles(ctx context.Context, req *sdkmcp.CallToolRequest, params ListFilesParams) (*sdkmcp.CallToolResult, FileListResponse, error) {
	caller := identityFromContext(ctx)
	infos, err := h.files.ListForProject(ctx, params.ProjectID, caller.UserID)
	if err != nil {
		return nil, FileListResponse{}, mapError(err)
	}
	resp := FileListResponse{Files: make([]FileInfoResponse, 0, len(infos))}
	for _, info := range infos {
		resp.Files = append(resp.Files, FileInfoResponse{
			ID:           info.ID,
			Name:         info.Name,
			Path:         info.Path,
			Language:     info.Language,
			LastEditedBy: info.LastEditedBy,
			UpdatedAt:    info.UpdatedAt,
		})
	}
	return nil, resp, nil
}

func (h *Handler) readFile(ctx context.Context, req *sdkmcp.CallToolRequest, params ReadFileParams) (*sdkmcp.CallToolResult, FileContentResponse, error) {
	caller := identityFromContext(ctx)
	snap, err := h.files.Read(ctx, params.FileID, caller.UserID)
	if err != nil {
		return nil, FileContentResponse{}, mapError(err)
	}
	return nil, FileContentResponse{
		Content:      snap.Content,
		Language:     snap.Language,
		LastEditedBy: snap.LastEditedBy,
		UpdatedAt:    snap.UpdatedAt,
	}, nil
}

func (h *Handler) writeFile(ctx context.Context, req *sdkmcp.CallToolRequest, params WriteFileParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
	caller := identityFromContext(ctx)
	if err := h.files.Write(ctx, params.FileID, params.Content, caller.UserID); err != nil {
		return nil, StatusResponse{}, mapError(err)
	}
	return nil, StatusResponse{Status: "written"}, nil
}

func (h *Handler) reportPresence(ctx context.Context, req *sdkmcp.CallToolRequest, params ReportPresenceParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
	caller := identityFromContext(ctx)
	name := params.Name
	if name == "" {
		name = caller.Name
	}
	avatar := params.Avatar
	if avatar == "" {
		avatar = caller.Avatar
	}
	err := h.presence.Report(ctx, presence.ReportRequest{
		FileID: params.FileID,
		Name:   name,
		Avatar: avatar,
		Cursor: cursorFromParams(params.Cursor),
	}, h.now(), caller.UserID)
	if err != nil {
		return nil, StatusResponse{}, mapError(err)
	}
	return nil, StatusResponse{Status: "reported"}, nil
}

func (h *Handler) listPresence(ctx context.Context, req *sdkmcp.CallToolRequest, params ListPresenceParams) (*sdkmcp.CallToolResult, PresenceListResponse, error) {
	caller := identityFromContext(ctx)
	window := time.Duration(params.WindowSeconds) * time.Second
	rows, err := h.presence.ListLive(ctx, params.FileID, h.now(), window, caller.UserID)
	if err != nil {
		return nil, PresenceListResponse{}, mapError(err)
	}
	resp := PresenceListResponse{Users: make([]PresenceResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Users = append(resp.Users, PresenceResponse{
			UserID:   row.UserID,
			Name:     row.Name,
			Avatar:   row.Avatar,
			Cursor:   cursorParams(row.Cursor),
			LastSeen: row.LastSeen,
		})
	}
	return nil, resp, nil
}
