package collaborator

import (
	"time"

	"github.com/padsync/padsync/internal/domain/access"
)

// InviteStatus tracks whether an invitation has been accepted.
type InviteStatus string

const (
	StatusPending  InviteStatus = "pending"
	StatusAccepted InviteStatus = "accepted"
)

// Collaborator is a (project, user) membership record carrying a role
// and invite state. UserID is empty while the invite is pending and is
// bound when the invitee accepts.
type Collaborator struct {
	ID           string       `json:"id"`
	ProjectID    string       `json:"project_id"`
	UserID       string       `json:"user_id"`
	Email        string       `json:"email"`
	Role         access.Role  `json:"role"`
	InviteStatus InviteStatus `json:"invite_status"`
	InvitedAt    time.Time    `json:"invited_at"`
}

// Accepted reports whether the membership grants access.
func (c *Collaborator) Accepted() bool {
	return c.InviteStatus == StatusAccepted
}
