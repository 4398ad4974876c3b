package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools binds every tool to its typed handler method. Input schemas
// are inferred from the params structs.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project owned by the caller",
	}, h.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects the caller has an accepted membership in",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project the caller is a member of",
	}, h.getProject)

	// Collaborators
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "invite_collaborator",
		Description: "Invite an email address to a project as editor or viewer (owner only)",
	}, h.inviteCollaborator)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "accept_invite",
		Description: "Accept a pending invitation, binding it to the caller's account",
	}, h.acceptInvite)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_collaborators",
		Description: "List a project's collaborators, pending invites included",
	}, h.listCollaborators)

	// Files
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_file",
		Description: "Create a file in a project (owner or editor only)",
	}, h.createFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rename_file",
		Description: "Move a file to a new name or path within its project",
	}, h.renameFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_files",
		Description: "List a project's files without their contents",
	}, h.listFiles)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "read_file",
		Description: "Read a file's content and last-edit metadata",
	}, h.readFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "write_file",
		Description: "Replace a file's content; the most recent write wins outright",
	}, h.writeFile)

	// Presence
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "report_presence",
		Description: "Report the caller's cursor position in a file",
	}, h.reportPresence)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_presence",
		Description: "List recently active users in a file",
	}, h.listPresence)
}
