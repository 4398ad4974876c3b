package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `padsync coordinates shared editing of project files.

Core concepts:
- Project: a container of files with exactly one owner.
- Collaborator: a membership row. Invites are pending until accepted and
  grant no access while pending.
- Roles: owner (everything), editor (read/write files), viewer (read only).
  Presence reporting is open to every accepted role, viewers included.
- File: content plus location (path + name, unique within a project).
- Presence: ephemeral per-user cursor records, filtered by recency at read
  time. A row older than the window simply stops being listed.

Rules of engagement:
1) Orient: list_projects, then list_files for the project you care about.
2) Read before writing: read_file returns content and who edited it last.
3) Writes replace the whole file and the most recent write wins. There is
   no merge; coordinate through presence if you are sharing a file.
4) Report presence while working in a file so other collaborators can see
   your cursor; list_presence shows theirs.
5) Inviting: only the project owner can invite_collaborator. The invitee
   calls accept_invite to bind the invite to their account.

Docs (progressive disclosure):
- padsync://docs/index (what to read when)
- padsync://docs/roles (role and invitation semantics)
- padsync://docs/conflicts (write and presence semantics)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "padsync://docs/index",
		Name:        "docs_index",
		Title:       "padsync docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# padsync: Agent Docs Index

## Quick start (no deep docs)

1. list_projects to see what you can access.
2. create_project if you need a fresh workspace; you become its owner.
3. create_file / read_file / write_file inside a project.
4. report_presence while editing; list_presence to see other cursors.

## When to read more

- Inviting people or puzzled by UNAUTHORIZED: padsync://docs/roles
- Two agents editing one file: padsync://docs/conflicts
`,
	},
	{
		URI:         "padsync://docs/roles",
		Name:        "docs_roles",
		Title:       "Roles and invitations",
		Description: "What each role can do and how the invitation lifecycle works.",
		Content: `# Roles and invitations

| Operation            | owner | editor | viewer | pending invitee |
|----------------------|-------|--------|--------|-----------------|
| read files           | yes   | yes    | yes    | no              |
| write/create/rename  | yes   | yes    | no     | no              |
| report presence      | yes   | yes    | yes    | no              |
| invite collaborators | yes   | no     | no     | no              |

Invitations target an email address, not an account. The row stays pending
until accept_invite binds it to the accepting caller's user ID; until then
the invitee has no access at all. Inviting the same email to one project
twice fails with DUPLICATE_INVITE. Ownership is assigned at project
creation and never granted by invitation.
`,
	},
	{
		URI:         "padsync://docs/conflicts",
		Name:        "docs_conflicts",
		Title:       "Write and presence semantics",
		Description: "How concurrent writes resolve and how presence staleness works.",
		Content: `# Write and presence semantics

## Writes

write_file replaces the entire content. Concurrent writes to one file are
ordered by storage commit order and the last one wins; there is no merge
and no version check. If you need to preserve someone else's edit, read
the file again before writing.

## Presence

Presence rows are ephemeral. Each report replaces your row for that file
wholesale, and list_presence only returns rows seen within the staleness
window (3s default for cursors, pass window_seconds=30 for a viewer list).
A collaborator who stops reporting fades out of the list on their own; no
explicit "leave" call exists.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
