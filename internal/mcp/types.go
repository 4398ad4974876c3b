package mcp

import (
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
)

type CreateProjectParams struct {
	Name        string `json:"name" jsonschema:"Project display name"`
	Description string `json:"description,omitempty" jsonschema:"Project description"`
}

type ListProjectsParams struct{}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type InviteCollaboratorParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	Email     string `json:"email" jsonschema:"Invitee email address"`
	Role      string `json:"role" jsonschema:"Role to grant, editor or viewer"`
}

type AcceptInviteParams struct {
	InviteID string `json:"invite_id" jsonschema:"Invitation ID"`
}

type ListCollaboratorsParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type CreateFileParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	Name      string `json:"name" jsonschema:"File name including extension"`
	Path      string `json:"path,omitempty" jsonschema:"Directory path, defaults to /"`
	Language  string `json:"language,omitempty" jsonschema:"Editor language, inferred from the name when omitted"`
	Content   string `json:"content,omitempty" jsonschema:"Initial file content"`
}

type RenameFileParams struct {
	FileID string `json:"file_id" jsonschema:"File ID"`
	Name   string `json:"name" jsonschema:"New file name"`
	Path   string `json:"path,omitempty" jsonschema:"New directory path, keeps the current one when omitted"`
}

type ListFilesParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type ReadFileParams struct {
	FileID string `json:"file_id" jsonschema:"File ID"`
}

type WriteFileParams struct {
	FileID  string `json:"file_id" jsonschema:"File ID"`
	Content string `json:"content" jsonschema:"Full replacement content"`
}

type CursorParams struct {
	Line      int              `json:"line" jsonschema:"Zero-based line"`
	Column    int              `json:"column" jsonschema:"Zero-based column"`
	Selection *SelectionParams `json:"selection,omitempty" jsonschema:"Optional selection range"`
}

type SelectionParams struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

type ReportPresenceParams struct {
	FileID string       `json:"file_id" jsonschema:"File ID"`
	Name   string       `json:"name,omitempty" jsonschema:"Display name shown next to the cursor"`
	Avatar string       `json:"avatar,omitempty" jsonschema:"Avatar URL"`
	Cursor CursorParams `json:"cursor" jsonschema:"Cursor position"`
}

type ListPresenceParams struct {
	FileID        string `json:"file_id" jsonschema:"File ID"`
	WindowSeconds int    `json:"window_seconds,omitempty" jsonschema:"Staleness window in seconds, defaults to the cursor window"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectSummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Role          string `json:"role"`
	FileCount     int    `json:"file_count"`
	Collaborators int    `json:"collaborators"`
}

type ProjectListResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
}

type CollaboratorResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	UserID       string    `json:"user_id,omitempty"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	InviteStatus string    `json:"invite_status"`
	InvitedAt    time.Time `json:"invited_at"`
}

type CollaboratorListResponse struct {
	Collaborators []CollaboratorResponse `json:"collaborators"`
}

type FileResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Language  string    `json:"language"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type FileInfoResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Language     string    `json:"language"`
	LastEditedBy string    `json:"last_edited_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FileListResponse struct {
	Files []FileInfoResponse `json:"files"`
}

type FileContentResponse struct {
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	LastEditedBy string    `json:"last_edited_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PresenceResponse struct {
	UserID   string       `json:"user_id"`
	Name     string       `json:"name"`
	Avatar   string       `json:"avatar,omitempty"`
	Cursor   CursorParams `json:"cursor"`
	LastSeen time.Time    `json:"last_seen"`
}

type PresenceListResponse struct {
	Users []PresenceResponse `json:"users"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func projectResponse(p *project.Project, role access.Role) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Role:        string(role),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func collaboratorResponse(c *collaborator.Collaborator) CollaboratorResponse {
	return CollaboratorResponse{
		ID:           c.ID,
		ProjectID:    c.ProjectID,
		UserID:       c.UserID,
		Email:        c.Email,
		Role:         string(c.Role),
		InviteStatus: string(c.InviteStatus),
		InvitedAt:    c.InvitedAt,
	}
}

func fileResponse(f *file.File) FileResponse {
	return FileResponse{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Name:      f.Name,
		Path:      f.Path,
		Language:  f.Language,
		CreatedBy: f.CreatedBy,
		CreatedAt: f.CreatedAt,
	}
}

func cursorParams(c presence.Cursor) CursorParams {
	out := CursorParams{Line: c.Line, Column: c.Column}
	if sel := c.Selection; sel != nil {
		out.Selection = &SelectionParams{
			StartLine:   sel.StartLine,
			StartColumn: sel.StartColumn,
			EndLine:     sel.EndLine,
			EndColumn:   sel.EndColumn,
		}
	}
	return out
}

func cursorFromParams(p CursorParams) presence.Cursor {
	cur := presence.Cursor{Line: p.Line, Column: p.Column}
	if sel := p.Selection; sel != nil {
		cur.Selection = &presence.Selection{
			StartLine:   sel.StartLine,
			StartColumn: sel.StartColumn,
			EndLine:     sel.EndLine,
			EndColumn:   sel.EndColumn,
		}
	}
	return cur
}
