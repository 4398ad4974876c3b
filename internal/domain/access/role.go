package access

// Role is a collaborator's permission level within a project.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether the role may create, rename, or write files.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// CanInvite reports whether the role may invite collaborators.
func (r Role) CanInvite() bool {
	return r == RoleOwner
}
