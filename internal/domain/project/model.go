package project

import (
	"time"

	"github.com/padsync/padsync/internal/domain/access"
)

// Project is a container for files edited by a set of collaborators.
// OwnerID is fixed at creation; ownership is never reassigned.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary is a lightweight representation for listing, annotated with the
// viewing user's role.
type Summary struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	OwnerID       string      `json:"owner_id"`
	Role          access.Role `json:"role"`
	FileCount     int         `json:"file_count"`
	Collaborators int         `json:"collaborators"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
